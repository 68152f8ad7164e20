// Package wordlist loads practice word lists from files.
package wordlist

import (
	"bufio"
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed starter.txt
var starterText string

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// Fallback returns the placeholder list used when no word list can be
// loaded. Practice still works, just with three words.
func Fallback() []string {
	return []string{"apple", "banana", "cherry"}
}

// Starter returns the embedded starter word list.
func Starter() []string {
	var words []string
	for _, line := range strings.Split(starterText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	return words
}

// StarterText returns the raw embedded starter list, suitable for
// writing to a fresh word list file.
func StarterText() string {
	return starterText
}

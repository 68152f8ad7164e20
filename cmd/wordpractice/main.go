// Package main provides the CLI entrypoint for wordpractice.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dennispr/WordPractice/internal/config"
	"github.com/dennispr/WordPractice/internal/leaderboard"
	"github.com/dennispr/WordPractice/internal/model"
	"github.com/dennispr/WordPractice/internal/session"
	"github.com/dennispr/WordPractice/internal/stats"
	"github.com/dennispr/WordPractice/internal/store"
	"github.com/dennispr/WordPractice/internal/tui"
	"github.com/dennispr/WordPractice/internal/wordlist"
)

const defaultWordsPerRun = 0

var (
	practiceList    string
	practiceWords   int
	practiceOrdered bool

	scoresColor bool

	resetForce bool

	wordsInit  bool
	wordsForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wordpractice",
		Short:         "Flashcard word practice in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	addRunFlags(rootCmd)

	rootCmd.AddCommand(newRaceCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newWordsCmd())

	return rootCmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&practiceList, "list", "", "word list file (one word per line)")
	cmd.Flags().IntVar(&practiceWords, "words", defaultWordsPerRun, "words per run (0 = whole list)")
	cmd.Flags().BoolVar(&practiceOrdered, "ordered", false, "keep list order instead of shuffling")
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	return runUI(cmd, nil)
}

func newRaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "race",
		Short: "Start straight into a race against your best and recent times",
		Args:  cobra.NoArgs,
		RunE:  runRaceCmd,
	}
	addRunFlags(cmd)
	return cmd
}

func runRaceCmd(cmd *cobra.Command, _ []string) error {
	mode := session.ModeRace
	return runUI(cmd, &mode)
}

func runUI(cmd *cobra.Command, startMode *session.Mode) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "list", &practiceList, fileCfg.Practice.List)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyBoolConfig(cmd, "ordered", &practiceOrdered, fileCfg.Practice.Ordered)

	cfg := model.Config{
		List:    practiceList,
		Words:   practiceWords,
		Ordered: practiceOrdered,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	words := loadRunWords(cfg.List)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ledger := stats.NewLedger(st)
	board := leaderboard.New(st)
	machine := session.New(cfg, ledger, board, words)
	if startMode != nil {
		if serr := machine.Start(*startMode); serr != nil {
			logErrf("failed to start run: %v\n", serr)
		}
	}

	ui := tui.NewModel(cfg, st, board, machine)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func validateConfig(cfg model.Config) error {
	if cfg.Words < 0 {
		return fmt.Errorf("--words must be >= 0")
	}
	return nil
}

// loadRunWords resolves the word list for a run. A missing or empty list
// is not fatal; the built-in placeholder keeps the app usable.
func loadRunWords(path string) []string {
	if path == "" {
		path = config.DefaultWordListPath()
	}
	words, err := wordlist.LoadWords(path)
	if err != nil {
		logErrf("failed to load word list %s: %v\n", path, err)
		logErrln("using built-in placeholder words; run 'wordpractice words --init' for a starter list")
		return wordlist.Fallback()
	}
	return words
}

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show the high score table",
		Args:  cobra.NoArgs,
		RunE:  runScoresCmd,
	}
	cmd.Flags().BoolVar(&scoresColor, "color", false, "force colored output")
	return cmd
}

func runScoresCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	board := leaderboard.New(st)
	scores, err := board.GetScores(context.Background(), model.GameID)
	if err != nil {
		return fmt.Errorf("failed to load high scores: %w", err)
	}
	return stats.RenderScores(cmd.OutOrStdout(), scores, scoresColor)
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show practice stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	doc, err := st.Load(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	info := model.GameInfo{Name: model.GameName}
	var derived model.Stats
	var sessions []model.Session
	if rec := doc.Games[model.GameID]; rec != nil {
		info = rec.Info
		derived = rec.Stats
		sessions = rec.Sessions
	}
	return stats.RenderStats(cmd.OutOrStdout(), info, derived, sessions)
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all saved sessions, stats, and high scores",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetForce, "force", false, "confirm deletion")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetForce {
		return fmt.Errorf("refusing to delete saved data without --force")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if err := st.Reset(context.Background()); err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Saved data deleted."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newWordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Inspect or create the word list",
		Args:  cobra.NoArgs,
		RunE:  runWordsCmd,
	}
	cmd.Flags().BoolVar(&wordsInit, "init", false, "write the built-in starter list")
	cmd.Flags().BoolVar(&wordsForce, "force", false, "overwrite an existing word list")
	return cmd
}

func runWordsCmd(cmd *cobra.Command, _ []string) error {
	path := config.DefaultWordListPath()
	if !wordsInit {
		words, err := wordlist.LoadWords(path)
		if err != nil {
			logErrf("no word list at %s: %v\n", path, err)
			logErrln("Create one with: wordpractice words --init")
			return fmt.Errorf("word list not available")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %d words\n", path, len(words)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if !wordsForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("word list already exists: %s (use --force to overwrite)", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat word list: %w", err)
		}
	}
	starter := wordlist.Starter()
	if err := writeWordList(path, starter); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d words)\n", path, len(starter)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeWordList(path string, words []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create word list dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "wordlist-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp word list: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	for _, word := range words {
		if _, err := fmt.Fprintln(writer, word); err != nil {
			return fmt.Errorf("failed to write word list: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush word list: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close word list: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write word list: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# wordpractice configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# list = %q
#     Word list file, one word per line.
# words = %d
#     Words per run (0 = whole list).
# ordered = false
#     Keep list order instead of shuffling.
`,
		config.DefaultWordListPath(),
		defaultWordsPerRun,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

// Package main provides the CLI entrypoint for tracepad.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verapine/tracepad/internal/config"
	"github.com/verapine/tracepad/internal/glyph"
	"github.com/verapine/tracepad/internal/model"
	"github.com/verapine/tracepad/internal/progress"
	"github.com/verapine/tracepad/internal/progressui"
	"github.com/verapine/tracepad/internal/store"
	"github.com/verapine/tracepad/internal/tui"
)

const (
	defaultProfile       = "default"
	defaultScorer        = "placeholder"
	defaultPassThreshold = 60
	defaultCelebrateSecs = 3
	defaultWeakFactor    = 2.0
	defaultRecent        = 8
)

var (
	practiceProfile       string
	practiceLetter        string
	practiceScorer        string
	practicePassThreshold int
	practiceCelebrateSecs int
	practiceFocusWeak     bool
	practiceWeakFactor    float64

	progressProfile string
	progressLetter  string
	progressPlain   bool
	progressRecent  int

	lettersProfile string

	resetProfile string
	resetLetter  string
	resetYes     bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tracepad",
		Short:         "TUI letter-tracing trainer for kids",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceProfile, "profile", defaultProfile, "child profile name")
	rootCmd.Flags().StringVar(&practiceLetter, "letter", "", "start with a specific letter (A-Z)")
	rootCmd.Flags().StringVar(&practiceScorer, "scorer", defaultScorer, "completion heuristic: placeholder or coverage")
	rootCmd.Flags().IntVar(&practicePassThreshold, "pass-threshold", defaultPassThreshold, "coverage score required to pass (1-100)")
	rootCmd.Flags().IntVar(&practiceCelebrateSecs, "celebrate-secs", defaultCelebrateSecs, "celebration duration in seconds")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias the next letter toward weak letters")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak letters")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newLettersCmd())
	rootCmd.AddCommand(newProfilesCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "profile", &practiceProfile, fileCfg.Practice.Profile)
	applyStringConfig(cmd, "scorer", &practiceScorer, fileCfg.Practice.Scorer)
	applyIntConfig(cmd, "pass-threshold", &practicePassThreshold, fileCfg.Practice.PassThreshold)
	applyIntConfig(cmd, "celebrate-secs", &practiceCelebrateSecs, fileCfg.Practice.CelebrateSecs)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)

	cfg := model.Config{
		Profile:       practiceProfile,
		Letter:        practiceLetter,
		Scorer:        practiceScorer,
		PassThreshold: practicePassThreshold,
		CelebrateSecs: practiceCelebrateSecs,
		FocusWeak:     practiceFocusWeak,
		WeakFactor:    practiceWeakFactor,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	target := 'A'
	if cfg.Letter != "" {
		target, err = glyph.Normalize([]rune(cfg.Letter)[0])
		if err != nil {
			return fmt.Errorf("invalid --letter %q: %w", cfg.Letter, err)
		}
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

	m, err := tui.NewModel(cfg, st, target)
	if err != nil {
		return fmt.Errorf("failed to build tracing UI: %w", err)
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show tracing progress",
		RunE:  runProgressCmd,
	}
	cmd.Flags().StringVar(&progressProfile, "profile", defaultProfile, "child profile name")
	cmd.Flags().StringVar(&progressLetter, "letter", "", "limit to one letter")
	cmd.Flags().BoolVar(&progressPlain, "plain", false, "print a plain report instead of the TUI")
	cmd.Flags().IntVar(&progressRecent, "recent", defaultRecent, "recent attempts to show")
	return cmd
}

func runProgressCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "profile", &progressProfile, fileCfg.Practice.Profile)

	cfg := model.ProgressConfig{
		Profile: progressProfile,
		Letter:  progressLetter,
		Plain:   progressPlain,
		Recent:  progressRecent,
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

	if cfg.Plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runPlainProgress(cmd, st, cfg)
	}

	m := progressui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run progress TUI: %w", err)
	}
	return nil
}

func runPlainProgress(cmd *cobra.Command, st *store.Store, cfg model.ProgressConfig) error {
	var letter rune
	if cfg.Letter != "" {
		normalized, err := glyph.Normalize([]rune(cfg.Letter)[0])
		if err != nil {
			return fmt.Errorf("invalid --letter %q: %w", cfg.Letter, err)
		}
		letter = normalized
	}
	records, err := st.ListRecords(context.Background(), cfg.Profile, letter)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	width := 0
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
	}
	out := &clippingWriter{w: cmd.OutOrStdout(), width: width}
	if err := progress.RenderSummary(out, records, time.Now()); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if err := progress.RenderLetterTable(out, records); err != nil {
		return fmt.Errorf("failed to render letter table: %w", err)
	}
	return nil
}

func newLettersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "letters",
		Short: "List letters and their states",
		Args:  cobra.NoArgs,
		RunE:  runLettersCmd,
	}
	cmd.Flags().StringVar(&lettersProfile, "profile", defaultProfile, "child profile name")
	return cmd
}

func runLettersCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	records, err := st.ListRecords(context.Background(), lettersProfile, 0)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	for _, r := range glyph.Letters {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%c %s\n", r, progress.StateOf(records, r)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List profiles present in the store",
		Args:  cobra.NoArgs,
		RunE:  runProfilesCmd,
	}
}

func runProfilesCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	profiles, err := st.Profiles(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	if len(profiles) == 0 {
		logErrln("No profiles yet. Start practicing: tracepad --profile <name>")
		return nil
	}
	for _, p := range profiles {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), p); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete a profile's progress records (admin)",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().StringVar(&resetProfile, "profile", "", "profile to reset (required)")
	cmd.Flags().StringVar(&resetLetter, "letter", "", "limit the reset to one letter")
	cmd.Flags().BoolVar(&resetYes, "yes", false, "skip the confirmation")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if strings.TrimSpace(resetProfile) == "" {
		return fmt.Errorf("--profile is required")
	}
	if !resetYes {
		return fmt.Errorf("refusing to delete records for %q without --yes", resetProfile)
	}
	var letter rune
	if resetLetter != "" {
		normalized, err := glyph.Normalize([]rune(resetLetter)[0])
		if err != nil {
			return fmt.Errorf("invalid --letter %q: %w", resetLetter, err)
		}
		letter = normalized
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

	deleted, err := st.ResetRecords(context.Background(), resetProfile, letter)
	if err != nil {
		return fmt.Errorf("failed to reset records: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d record(s) for %s\n", deleted, resetProfile); err != nil {
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
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
	return fmt.Sprintf(`# tracepad configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# profile = %q           # Child profile name
# scorer = %q        # Completion heuristic: placeholder or coverage
# pass-threshold = %d          # Coverage score required to pass (1-100)
# celebrate-secs = %d           # Celebration duration in seconds
# focus-weak = false           # Bias the next letter toward weak letters
# weak-factor = %.1f            # Weight factor for weak letters
`,
		defaultProfile,
		defaultScorer,
		defaultPassThreshold,
		defaultCelebrateSecs,
		defaultWeakFactor,
	)
}

func validateConfig(cfg model.Config) error {
	if strings.TrimSpace(cfg.Profile) == "" {
		return fmt.Errorf("--profile must not be empty; who is practicing?")
	}
	if cfg.Scorer != "placeholder" && cfg.Scorer != "coverage" {
		return fmt.Errorf("--scorer must be placeholder or coverage")
	}
	if cfg.PassThreshold < 1 || cfg.PassThreshold > 100 {
		return fmt.Errorf("--pass-threshold must be between 1 and 100")
	}
	if cfg.CelebrateSecs < 0 {
		return fmt.Errorf("--celebrate-secs must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	return nil
}

// clippingWriter truncates each line to the terminal width so the plain
// report never wraps mid-table.
type clippingWriter struct {
	w     io.Writer
	width int
}

func (c *clippingWriter) Write(p []byte) (int, error) {
	if c.width <= 0 {
		return c.w.Write(p)
	}
	lines := strings.Split(string(p), "\n")
	for i, line := range lines {
		runes := []rune(line)
		if len(runes) > c.width {
			lines[i] = string(runes[:c.width])
		}
	}
	if _, err := c.w.Write([]byte(strings.Join(lines, "\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
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

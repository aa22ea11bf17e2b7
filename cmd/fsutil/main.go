package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/HenrikKarapetyan/filesystem/internal/approval"
	"github.com/HenrikKarapetyan/filesystem/internal/config"
	"github.com/HenrikKarapetyan/filesystem/internal/filesystem"
	"github.com/HenrikKarapetyan/filesystem/internal/journal"
	"github.com/HenrikKarapetyan/filesystem/internal/logger"
	"github.com/HenrikKarapetyan/filesystem/internal/terminal"
	"github.com/HenrikKarapetyan/filesystem/pkg/fsutil"
)

var version = "v0.1.0"

var (
	cfg        *config.Config
	journalMgr *journal.Manager
	approver   *approval.Approver
	renderer   *terminal.Renderer

	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Flags shared by every command.
var (
	configDir    string
	extFlag      string
	excludeFlags []string
	globFlags    []string
	separator    string
	assumeYes    bool
	noProgress   bool
)

var rootCmd = &cobra.Command{
	Use:               "fsutil",
	Short:             "Filesystem utilities",
	Long:              "Create, copy, move and delete files and directory trees, and list the source files or classes a tree declares.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(stdout, "fsutil %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(mkdirCmd, touchCmd, rmCmd, cpCmd, mvCmd)
	rootCmd.AddCommand(rmdirCmd, cpdirCmd, mvdirCmd, lsCmd, watchCmd)
	rootCmd.AddCommand(sourcesCmd, classesCmd)
	rootCmd.AddCommand(journalCmd, configCmd)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configDir, "config-dir", config.GetConfigDir(), "directory holding config.json, logs and the journal")
	flags.StringVar(&extFlag, "ext", "", "only include entries with this extension (without the dot)")
	flags.StringArrayVar(&excludeFlags, "exclude", nil, "skip this path and everything below it (repeatable)")
	flags.StringArrayVar(&globFlags, "exclude-glob", nil, "skip paths matching this doublestar pattern (repeatable)")
	flags.StringVar(&separator, "separator", "", "namespace separator for derived names")
	flags.BoolVarP(&assumeYes, "yes", "y", false, "do not ask before destructive operations")
	flags.BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
}

// setup loads .env, the configuration, the logger, the journal and the
// approval prompt before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	var err error
	cfg, err = config.LoadWithFS(filesystem.NewOSFileSystem(), configDir, configFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.LogDir, cfg.Level()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Debug("config loaded from %s", configFile())

	journalMgr, err = journal.NewManager(cfg.JournalDir)
	if err != nil {
		return fmt.Errorf("failed to initialize journal: %w", err)
	}

	approver = approval.New(approval.ModeManual, stdin, stdout)
	switch {
	case cfg.AutoApprove:
		approver.SetMode(approval.ModeAuto)
	case assumeYes:
		approver.SetMode(approval.ModeSession)
	}

	if !terminal.StdoutIsTerminal() {
		color.NoColor = true
	}
	renderer = terminal.NewRenderer(stdout)
	return nil
}

func configFile() string {
	return filepath.Join(configDir, "config.json")
}

// options merges the configured filters with the command-line flags. The
// configured source extension applies only when withSourceExt is set.
func options(withSourceExt bool) fsutil.Options {
	opts := cfg.Options()
	if !withSourceExt {
		opts.Extension = ""
	}
	if extFlag != "" {
		opts.Extension = extFlag
	}
	opts.Excluded = append(opts.Excluded, excludeFlags...)
	opts.ExcludeGlobs = append(opts.ExcludeGlobs, globFlags...)
	if separator != "" {
		opts.Separator = separator
	}
	return opts
}

// confirm asks before a destructive operation. Answering "always" is saved
// to the configuration.
func confirm(action string) error {
	before := approver.Mode()
	if err := approver.Require(action); err != nil {
		return err
	}
	if before != approval.ModeAuto && approver.Mode() == approval.ModeAuto {
		cfg.AutoApprove = true
		if err := cfg.SaveWithFS(filesystem.NewOSFileSystem(), configFile()); err != nil {
			logger.Warn("failed to save auto_approve: %v", err)
		}
	}
	return nil
}

// journaled runs fn and records its outcome.
func journaled(op, source, destination string, fn func() error) error {
	err := fn()
	journalMgr.Append(op, source, destination, err)
	if saveErr := journalMgr.Save(); saveErr != nil {
		logger.Warn("failed to save journal: %v", saveErr)
	}

	if err != nil {
		logger.Error("%s %s: %v", op, source, err)
		return err
	}
	logger.Info("%s %s %s", op, source, destination)
	return nil
}

func run(args []string) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		terminal.NewRenderer(stderr).Error(fsutil.KindName(err), err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:]))
}

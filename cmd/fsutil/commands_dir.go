package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/HenrikKarapetyan/filesystem/internal/logger"
	"github.com/HenrikKarapetyan/filesystem/internal/progress"
	"github.com/HenrikKarapetyan/filesystem/internal/terminal"
	"github.com/HenrikKarapetyan/filesystem/internal/watch"
	"github.com/HenrikKarapetyan/filesystem/pkg/fsutil"
)

var debounceFlag time.Duration

var rmdirCmd = &cobra.Command{
	Use:   "rmdir DIRECTORY",
	Short: "Delete a directory and everything below it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := confirm(fmt.Sprintf("Delete directory %q and everything below it", args[0])); err != nil {
			return err
		}
		return journaled("rmdir", args[0], "", func() error {
			return fsutil.DeleteDirectory(args[0])
		})
	},
}

var cpdirCmd = &cobra.Command{
	Use:   "cpdir SOURCE DESTINATION",
	Short: "Copy the files of a directory tree",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return journaled("cpdir", args[0], args[1], func() error {
			return withProgress("Copying", args[0], func(opts fsutil.Options) error {
				return fsutil.CopyDirectory(args[0], args[1], opts)
			})
		})
	},
}

var mvdirCmd = &cobra.Command{
	Use:   "mvdir SOURCE DESTINATION",
	Short: "Copy a directory tree, then delete the source",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := confirm(fmt.Sprintf("Move directory %q to %q", args[0], args[1])); err != nil {
			return err
		}
		return journaled("mvdir", args[0], args[1], func() error {
			return withProgress("Moving", args[0], func(opts fsutil.Options) error {
				return fsutil.MoveDirectory(args[0], args[1], opts)
			})
		})
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls DIRECTORY",
	Short: "List everything below a directory, parents first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		paths, err := fsutil.GetFilesFromDirectory(args[0], options(false))
		if err != nil {
			return err
		}
		renderer.Paths(paths, isDir)
		renderer.Summary(len(paths), "path", time.Since(start))
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch SOURCE DESTINATION",
	Short: "Copy a directory tree again whenever it changes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, args[0], args[1])
	},
}

func init() {
	watchCmd.Flags().DurationVar(&debounceFlag, "debounce", watch.DefaultDebounce, "quiet period before copying")
}

// runWatch copies source once and then after every burst of changes until
// ctx is done. destination must lie outside source.
func runWatch(ctx context.Context, source, destination string) error {
	inside, err := within(source, destination)
	if err != nil {
		return err
	}
	if inside {
		return fmt.Errorf("destination %s is inside source %s", destination, source)
	}

	opts := options(false)
	copyOnce := func() error {
		return journaled("sync", source, destination, func() error {
			return fsutil.CopyDirectory(source, destination, opts)
		})
	}
	if err := copyOnce(); err != nil {
		return err
	}

	w, err := watch.New(fsutil.Default, source, opts, debounceFlag)
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Fprintf(stdout, "watching %s\n", source)
	err = w.Run(ctx, func(paths []string) {
		logger.Debug("watch: %d changed paths", len(paths))
		if err := copyOnce(); err != nil {
			renderer.Error(fsutil.KindName(err), err)
			return
		}
		fmt.Fprintf(stdout, "synced %d changes to %s\n", len(paths), destination)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// withProgress runs a directory copy with a progress bar attached to its
// Progress callback.
func withProgress(description, source string, fn func(fsutil.Options) error) error {
	opts := options(false)
	show := !noProgress && terminal.StdoutIsTerminal()

	total := -1
	if show {
		if n, err := progress.CountFiles(fsutil.Default, source, opts); err == nil {
			total = n
		}
	}

	bar := progress.New(total, description, show)
	opts.Progress = bar.Observe
	err := fn(opts)
	bar.Finish()

	if err == nil {
		renderer.Summary(bar.Files(), "file", 0)
	}
	return err
}

// within reports whether path is dir or lies below it.
func within(dir, path string) (bool, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false, nil
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

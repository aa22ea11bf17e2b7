package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HenrikKarapetyan/filesystem/internal/config"
	"github.com/HenrikKarapetyan/filesystem/pkg/fsutil"
)

var (
	modeFlag    string
	contentFlag string
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir PATH",
	Short: "Create a directory and any missing parents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := modeOr(cmd, cfg.DirMode)
		if err != nil {
			return err
		}
		return journaled("mkdir", args[0], "", func() error {
			return fsutil.Mkdir(args[0], mode)
		})
	},
}

var touchCmd = &cobra.Command{
	Use:   "touch PATH",
	Short: "Create a file unless it already exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := modeOr(cmd, cfg.FileMode)
		if err != nil {
			return err
		}
		return journaled("touch", args[0], "", func() error {
			return fsutil.CreateFile(args[0], mode, []byte(contentFlag))
		})
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm FILE",
	Short: "Delete a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := confirm(fmt.Sprintf("Delete file %q", args[0])); err != nil {
			return err
		}
		return journaled("rm", args[0], "", func() error {
			return fsutil.DeleteFile(args[0])
		})
	},
}

var cpCmd = &cobra.Command{
	Use:   "cp SOURCE DESTINATION",
	Short: "Copy a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return journaled("cp", args[0], args[1], func() error {
			return fsutil.CopyFile(args[0], args[1])
		})
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv SOURCE DESTINATION",
	Short: "Move or rename a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := confirm(fmt.Sprintf("Move file %q to %q", args[0], args[1])); err != nil {
			return err
		}
		return journaled("mv", args[0], args[1], func() error {
			return fsutil.MoveFile(args[0], args[1])
		})
	},
}

func init() {
	mkdirCmd.Flags().StringVar(&modeFlag, "mode", "", "permission bits in octal (default from dir_mode)")
	touchCmd.Flags().StringVar(&modeFlag, "mode", "", "permission bits in octal (default from file_mode)")
	touchCmd.Flags().StringVar(&contentFlag, "content", "", "initial file content")
}

// modeOr parses --mode when it was given and fallback otherwise.
func modeOr(cmd *cobra.Command, fallback string) (os.FileMode, error) {
	value := fallback
	if cmd.Flags().Changed("mode") {
		value = modeFlag
	}
	mode, err := config.ParseMode(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --mode: %w", err)
	}
	return mode, nil
}

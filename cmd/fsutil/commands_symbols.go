package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HenrikKarapetyan/filesystem/internal/files"
	"github.com/HenrikKarapetyan/filesystem/pkg/fsutil"
)

var (
	outputFlag   string
	registryFlag string
)

var sourcesCmd = &cobra.Command{
	Use:   "sources DIRECTORY NAMESPACE",
	Short: "List the qualified names of the source files below a directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		names, err := fsutil.GetSourcesFromDirectory(args[0], args[1], options(true))
		if err != nil {
			return err
		}
		return printNames(names, "source", time.Since(start))
	},
}

var classesCmd = &cobra.Command{
	Use:   "classes DIRECTORY NAMESPACE",
	Short: "List the qualified names below a directory that a registry declares",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		registry, err := files.NewLoader().LoadSymbols(registryFlag)
		if err != nil {
			return err
		}

		names, err := fsutil.GetClassesFromDirectory(args[0], args[1], registry, options(true))
		if err != nil {
			return err
		}
		return printNames(names, "class", time.Since(start))
	},
}

func init() {
	sourcesCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "write the names to a manifest (.yaml, .json, .toml or text)")
	classesCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "write the names to a manifest (.yaml, .json, .toml or text)")
	classesCmd.Flags().StringVar(&registryFlag, "registry", "", "manifest listing the declared names")
	classesCmd.MarkFlagRequired("registry")
}

func printNames(names []string, noun string, elapsed time.Duration) error {
	if outputFlag != "" {
		if err := files.NewLoader().WriteSymbols(outputFlag, names); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %d names to %s\n", len(names), outputFlag)
		return nil
	}

	renderer.Lines(names)
	renderer.Summary(len(names), noun, elapsed)
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/HenrikKarapetyan/filesystem/internal/filesystem"
)

const timeLayout = "2006-01-02 15:04:05"

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the operation journal",
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := journalMgr.ListSessions()
		if err != nil {
			return err
		}

		var rows [][]string
		for _, s := range sessions {
			if len(s.Records) == 0 {
				continue
			}
			failed := 0
			for _, r := range s.Records {
				if r.Failed() {
					failed++
				}
			}
			rows = append(rows, []string{
				s.ID,
				s.CreatedAt.Format(timeLayout),
				strconv.Itoa(len(s.Records)),
				strconv.Itoa(failed),
			})
		}
		if len(rows) == 0 {
			fmt.Fprintln(stdout, "No recorded sessions.")
			return nil
		}
		renderer.Table([]string{"ID", "CREATED", "RECORDS", "FAILED"}, rows)
		return nil
	},
}

var journalShowCmd = &cobra.Command{
	Use:   "show SESSION_ID",
	Short: "Show the records of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := journalMgr.LoadSession(args[0])
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(session.Records))
		for _, r := range session.Records {
			rows = append(rows, []string{
				r.Timestamp.Format(timeLayout),
				r.Op,
				r.Source,
				r.Destination,
				r.Error,
			})
		}
		renderer.Table([]string{"TIME", "OP", "SOURCE", "DESTINATION", "ERROR"}, rows)
		renderer.Summary(len(rows), "record", session.UpdatedAt.Sub(session.CreatedAt).Truncate(time.Millisecond))
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.SaveWithFS(filesystem.NewOSFileSystem(), configFile()); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	journalCmd.AddCommand(journalListCmd, journalShowCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd)
}

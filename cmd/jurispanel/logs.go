package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/jurispanel/internal/audit"
)

var logsLimit int

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show audit log entries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.domain.Audit.List(commandContext(cmd), logsLimit)
		if err != nil {
			return err
		}
		return renderEntries(cmd.OutOrStdout(), entries)
	},
}

func init() {
	logsCmd.Flags().IntVarP(&logsLimit, "limit", "n", 50, "Maximum entries to show (at most "+strconv.Itoa(audit.Retention)+")")
}

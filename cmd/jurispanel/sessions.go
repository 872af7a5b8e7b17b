package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/jurispanel/pkg/pagination"
)

var (
	sessionsTrash  bool
	sessionsPage   int
	sessionsSize   int
	sessionsSearch string
	exportFormat   string
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect saved sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions, most recently saved first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		page := pagination.PageRequest{Page: sessionsPage, PageSize: sessionsSize}
		if sessionsSearch != "" {
			page.Search = &sessionsSearch
		}

		list := a.domain.Sessions.List
		if sessionsTrash {
			list = a.domain.Sessions.ListTrash
		}

		result, err := list(commandContext(cmd), page)
		if err != nil {
			return err
		}
		return renderSummaries(cmd.OutOrStdout(), result.Data, result.Total)
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the cases of a saved session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.domain.Sessions.Find(commandContext(cmd), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", idStyle.Render(sess.ID))
		renderMetadata(out, sess.Metadata)
		fmt.Fprintln(out)
		return renderCases(out, sess.Cases)
	},
}

var sessionsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write a saved session as JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.domain.Sessions.Find(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		return writeExport(cmd.OutOrStdout(), exportFormat, sess)
	},
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	sessionsListCmd.Flags().BoolVar(&sessionsTrash, "trash", false, "List trashed sessions instead")
	sessionsListCmd.Flags().IntVar(&sessionsPage, "page", 1, "Page number")
	sessionsListCmd.Flags().IntVar(&sessionsSize, "page-size", 20, "Page size")
	sessionsListCmd.Flags().StringVarP(&sessionsSearch, "search", "s", "", "Filter by ID, judging body, or rapporteur")

	sessionsExportCmd.Flags().StringVarP(&exportFormat, "format", "f", FormatJSON, "Output format (json, yaml)")

	sessionsCmd.AddCommand(sessionsListCmd, sessionsShowCmd, sessionsExportCmd)
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/jurispanel/internal/cases"
)

var (
	extractSave     bool
	extractMetadata bool
	extractOrgao    string
	extractRelator  string
	extractData     string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract the cases of a session document",
	Long: `Extract runs the document through the active model provider (or the
extraction cache) and prints the cases in call order.

With --metadata the session descriptors are auto-filled from the document
first; explicit --orgao/--relator/--data values are kept when the document
leaves a field empty. With --save the result is stored as a new session.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		up, err := readUpload(args[0])
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		md := cases.Metadata{Orgao: extractOrgao, Relator: extractRelator, Data: extractData}
		if extractMetadata {
			if md, err = a.domain.Workspace.Autofill(ctx, up, md); err != nil {
				return fmt.Errorf("metadata: %w", err)
			}
		}

		snap, err := a.domain.Workspace.Extract(ctx, up, md)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !snap.Metadata.IsZero() {
			renderMetadata(out, snap.Metadata)
			fmt.Fprintln(out)
		}
		if err := renderCases(out, snap.Cases); err != nil {
			return err
		}

		if !extractSave {
			return nil
		}

		saved, err := a.domain.Workspace.Save(ctx)
		if err != nil {
			return fmt.Errorf("save: %w", err)
		}
		fmt.Fprintf(out, "Sessão %s salva\n", idStyle.Render(saved.SessionID))
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "Store the extracted cases as a session")
	extractCmd.Flags().BoolVar(&extractMetadata, "metadata", false, "Auto-fill session metadata from the document")
	extractCmd.Flags().StringVar(&extractOrgao, "orgao", "", "Judging body")
	extractCmd.Flags().StringVar(&extractRelator, "relator", "", "Rapporteur")
	extractCmd.Flags().StringVar(&extractData, "data", "", "Session date")
}

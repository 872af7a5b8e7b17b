package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/jurispanel/internal/documents"
	"github.com/JaimeStill/jurispanel/pkg/contenthash"
)

var hashCmd = &cobra.Command{
	Use:   "hash <file>",
	Short: "Print the content hash used as the extraction cache key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		up, err := readUpload(args[0])
		if err != nil {
			return err
		}

		sum, err := hashUpload(newLogger(cmd.ErrOrStderr()), up)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), sum)
		return nil
	},
}

func readUpload(path string) (documents.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return documents.Upload{}, fmt.Errorf("read %s: %w", path, err)
	}
	return documents.Upload{Filename: filepath.Base(path), Data: data}, nil
}

func hashUpload(logger *slog.Logger, up documents.Upload) (string, error) {
	doc, _, err := documents.Convert(logger, up)
	if err != nil {
		return "", err
	}
	return contenthash.Sum(doc.HashInput()), nil
}

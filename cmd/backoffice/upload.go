package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/backoffice/internal/upload"
)

func (c *cli) uploadWordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload-words <dictionary-id> <file|->",
		Short: "Upload a newline-separated word list into a dictionary",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}
			words := upload.Parse(text)
			fmt.Fprintf(c.out, "%d words in %d batches\n", len(words), c.app.Uploader.Batches(len(words)))

			p, err := c.app.Uploader.Upload(cmd.Context(), args[0], words, func(p upload.Progress) {
				fmt.Fprintf(c.out, "uploaded %s\n", p)
			})
			if err != nil {
				return fmt.Errorf("upload stopped at %s: %w", p, err)
			}
			_, err = fmt.Fprintln(c.out, "done")
			return err
		},
	}
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read word list: %w", err)
	}
	return string(b), nil
}

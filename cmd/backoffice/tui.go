package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/backoffice/internal/entity"
	"github.com/heartmarshall/backoffice/internal/lookup"
	"github.com/heartmarshall/backoffice/internal/tui"
	"github.com/heartmarshall/backoffice/internal/upload"
)

func (c *cli) tuiCmd() *cobra.Command {
	var scope string
	cmd := &cobra.Command{
		Use:       "tui <screen>",
		Short:     "Open an interactive list screen",
		Args:      cobra.ExactArgs(1),
		ValidArgs: entity.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.app.Catalog.Screen(args[0], scope)
			if err != nil {
				return err
			}
			opts := tui.Options{Header: c.app.Identity.Label()}
			switch args[0] {
			case entity.NameTasks:
				opts.NewLookup = func(deliver func([]lookup.Option, error)) tui.MemberLookup {
					return c.app.NewMemberSearch(scope, deliver)
				}
			case entity.NameWords:
				// The uploader refreshes through the catalog's registry, which
				// holds this screen's query.
				opts.Upload = func(ctx context.Context, words []string, onProgress func(upload.Progress)) (upload.Progress, error) {
					return c.app.Uploader.Upload(ctx, scope, words, onProgress)
				}
			}
			return tui.Run(cmd.Context(), s, opts)
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "", "parent id for words, child-entities, tasks and members")
	return cmd
}

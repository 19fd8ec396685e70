package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/backoffice/internal/domain"
	"github.com/heartmarshall/backoffice/internal/entity"
	"github.com/heartmarshall/backoffice/internal/workflow"
)

type screenFlags struct {
	scope  string
	asJSON bool
}

func (f *screenFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.scope, "scope", "", "parent id for words, child-entities, tasks and members")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print records as JSON")
}

func (c *cli) screen(name string, f *screenFlags) (*workflow.Screen, error) {
	return c.app.Catalog.Screen(name, f.scope)
}

func (c *cli) listCmd() *cobra.Command {
	var (
		f      screenFlags
		search string
	)
	cmd := &cobra.Command{
		Use:       "list <screen>",
		Short:     "Print a list",
		Args:      cobra.ExactArgs(1),
		ValidArgs: entity.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.screen(args[0], &f)
			if err != nil {
				return err
			}
			if err := s.Search(cmd.Context(), search); err != nil {
				return err
			}
			rows, st := s.Rows()
			if f.asJSON {
				return printJSON(c.out, st.Records)
			}
			return printRows(c.out, s.Projector.Headers(), rows)
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&search, "search", "", "search text (words: id prefix)")
	return cmd
}

func (c *cli) createCmd() *cobra.Command {
	var (
		f    screenFlags
		sets []string
	)
	cmd := &cobra.Command{
		Use:   "create <screen> --set name=value...",
		Short: "Create a record through the screen's form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.screen(args[0], &f)
			if err != nil {
				return err
			}
			if err := s.Form.Add(); err != nil {
				return err
			}
			return c.submit(cmd, s, sets, f.asJSON)
		},
	}
	f.bind(cmd)
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field value as name=value, repeatable")
	return cmd
}

func (c *cli) updateCmd() *cobra.Command {
	var (
		f    screenFlags
		sets []string
	)
	cmd := &cobra.Command{
		Use:   "update <screen> <id> --set name=value...",
		Short: "Update a record; unset fields keep their value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.screen(args[0], &f)
			if err != nil {
				return err
			}
			if err := s.Load(cmd.Context()); err != nil {
				return err
			}
			if err := s.Invoke(cmd.Context(), args[1], workflow.ActionEdit); err != nil {
				return fmt.Errorf("%s %s: %w", args[0], args[1], err)
			}
			return c.submit(cmd, s, sets, f.asJSON)
		},
	}
	f.bind(cmd)
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field value as name=value, repeatable")
	return cmd
}

func (c *cli) submit(cmd *cobra.Command, s *workflow.Screen, sets []string, asJSON bool) error {
	defer s.Form.Cancel()

	pairs, err := parseSets(sets)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		if err := s.Form.SetField(p[0], p[1]); err != nil {
			return err
		}
	}
	rec, err := s.Form.Submit(cmd.Context())
	if err != nil {
		return err
	}
	if err := printRecord(c.out, rec, asJSON); err != nil {
		return err
	}
	return c.printOwner(cmd, s, rec)
}

// printOwner shows who a task was assigned to; the mutation result may
// carry only the owner id.
func (c *cli) printOwner(cmd *cobra.Command, s *workflow.Screen, rec domain.Record) error {
	if s.Desc.Name != entity.NameTasks {
		return nil
	}
	id := rec.Text("owner.id")
	if id == "" {
		return nil
	}
	name, err := c.app.Names.Name(cmd.Context(), id)
	if err != nil {
		c.app.Log.Warn("resolve owner", slog.String("owner", id), slog.String("error", err.Error()))
		return nil
	}
	_, err = fmt.Fprintf(c.out, "owner: %s (%s)\n", name, id)
	return err
}

func (c *cli) deleteCmd() *cobra.Command {
	var f screenFlags
	cmd := &cobra.Command{
		Use:   "delete <screen> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.screen(args[0], &f)
			if err != nil {
				return err
			}
			if err := s.Mutator.Delete(cmd.Context(), args[1]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.out, "%s deleted\n", args[1])
			return err
		},
	}
	f.bind(cmd)
	return cmd
}

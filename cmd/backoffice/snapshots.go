package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func (c *cli) snapshotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots",
		Short: "List cached lists persisted in PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.app.Snapshots == nil {
				return errors.New("snapshots are disabled; set cache.snapshots and database.dsn")
			}
			list, err := c.app.Snapshots.List(cmd.Context())
			if err != nil {
				return err
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("Operation", "Cond", "Limit", "Records")
			for _, s := range list {
				t.Row(s.Key.Operation, s.Key.Cond, strconv.Itoa(s.Key.Limit), strconv.Itoa(s.RecordCount))
			}
			c.app.Log.Debug("snapshots listed")
			_, err = fmt.Fprintln(c.out, t.String())
			return err
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/backoffice/internal/domain"
	"github.com/heartmarshall/backoffice/internal/entity"
)

func (c *cli) orderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Work with the signed-in customer's orders",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <good-type-id>",
			Short: "Add a good to the draft order",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Catalog.AddToCart(cmd.Context(), domain.Record{"id": args[0]}); err != nil {
					return err
				}
				_, err := fmt.Fprintf(c.out, "%s added to cart\n", args[0])
				return err
			},
		},
		&cobra.Command{
			Use:   "approve <order-id>",
			Short: "Fix a draft order",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.orderAction(cmd, args[0], entity.ActionApprove)
			},
		},
		&cobra.Command{
			Use:   "remove-detail <order-id> <detail-id>",
			Short: "Remove one detail from an order",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.orderAction(cmd, args[0], entity.ActionRemoveDetail+":"+args[1])
			},
		},
	)
	return cmd
}

func (c *cli) orderAction(cmd *cobra.Command, orderID, action string) error {
	s, err := c.app.Catalog.Orders()
	if err != nil {
		return err
	}
	if err := s.Load(cmd.Context()); err != nil {
		return err
	}
	if err := s.Invoke(cmd.Context(), orderID, action); err != nil {
		return fmt.Errorf("order %s %s: %w", orderID, action, err)
	}
	_, err = fmt.Fprintf(c.out, "order %s: %s done\n", orderID, action)
	return err
}

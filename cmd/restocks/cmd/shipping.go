package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func shippingCmd() *cobra.Command {
	shippingRoot := &cobra.Command{
		Use:   "shipping",
		Short: "Shipping tasks, labels and consignment status",
	}

	shippingRoot.AddCommand(
		shippingListCmd(),
		shippingLabelCmd(),
		shippingStatusCmd(),
	)

	return shippingRoot
}

func shippingListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List items that still need a shipping label",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()
			c, err := newAuthedClient(ctx)
			if err != nil {
				return err
			}

			tasks, err := c.GetShippingProducts(ctx)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(tasks)
			}
			return printShippingTasks(tasks)
		},
	}
}

func shippingLabelCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "label <listing-id>",
		Short: "Download the shipping label for a listing",
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid listing id %q", args[0])
			}

			ctx := context.Background()
			c, err := newAuthedClient(ctx)
			if err != nil {
				return err
			}

			tasks, err := c.GetShippingProducts(ctx)
			if err != nil {
				return err
			}

			for i := range tasks {
				if tasks[i].ListingID != id {
					continue
				}

				label, err := c.DownloadLabel(ctx, &tasks[i])
				if err != nil {
					return err
				}

				path := out
				if path == "" {
					path = fmt.Sprintf("%d.%s", id, strings.ToLower(string(label.Format)))
				}
				if err := os.WriteFile(path, label.Data, 0o644); err != nil {
					return fmt.Errorf("writing label file: %w", err)
				}
				fmt.Printf("Saved %s label to %s\n", label.Format, path)
				return nil
			}

			return fmt.Errorf("no shipping task for listing %d", id)
		},
		Args: cobra.ExactArgs(1),
	}

	cmd.Flags().StringVar(&out, "out", "", "output file (default <listing-id>.<ext>)")

	return cmd
}

func shippingStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether consignment selling is unlocked",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()
			c, err := newAuthedClient(ctx)
			if err != nil {
				return err
			}

			unlocked, err := c.CheckConsignStatus(ctx)
			if err != nil {
				return err
			}

			if unlocked {
				fmt.Println("Consignment selling is unlocked")
			} else {
				fmt.Println("Consignment selling is locked")
			}
			return nil
		},
	}
}

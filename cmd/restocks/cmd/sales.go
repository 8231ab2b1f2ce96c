package cmd

import (
	"context"

	"github.com/spf13/cobra"

	domain "github.com/restocksgo/restocks/pkg/types"
)

func salesCmd() *cobra.Command {
	salesRoot := &cobra.Command{
		Use:   "sales",
		Short: "Inspect your sales",
	}

	salesRoot.AddCommand(
		salesSubCmd("current", "Sales that are sold but not yet completed",
			func(ctx context.Context) ([]domain.SaleRecord, error) {
				c, err := newAuthedClient(ctx)
				if err != nil {
					return nil, err
				}
				return c.GetCurrentSales(ctx)
			}),
		salesSubCmd("history", "Completed sales",
			func(ctx context.Context) ([]domain.SaleRecord, error) {
				c, err := newAuthedClient(ctx)
				if err != nil {
					return nil, err
				}
				return c.GetHistorySales(ctx)
			}),
	)

	return salesRoot
}

func salesSubCmd(
	use, short string,
	fetch func(ctx context.Context) ([]domain.SaleRecord, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(_ *cobra.Command, _ []string) error {
			sales, err := fetch(context.Background())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(sales)
			}
			return printSales(sales)
		},
	}
}

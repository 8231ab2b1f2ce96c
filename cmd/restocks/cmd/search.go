package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/restocksgo/restocks/pkg/restocks"
)

func searchCmd() *cobra.Command {
	var (
		sku  string
		name string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the catalog by SKU or name",
		Example: `  # Exact SKU lookup
  restocks search --sku DD1391-100

  # Free-text name lookup
  restocks search --name "Dunk Low Panda"`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}

			product, err := c.SearchProduct(context.Background(), restocks.SearchQuery{
				SKU:  sku,
				Name: name,
			})
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(product)
			}
			return printProduct(product)
		},
	}

	cmd.Flags().StringVar(&sku, "sku", "", "manufacturer SKU")
	cmd.Flags().StringVar(&name, "name", "", "product name")

	return cmd
}

func productCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product <slug>",
		Short: "Show product details and sizes for a slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}

			product, err := c.GetProductInfo(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(product)
			}
			return printProduct(product)
		},
	}

	return cmd
}

func payoutCmd() *cobra.Command {
	var (
		price    int
		method   string
		currency string
	)

	cmd := &cobra.Command{
		Use:   "payout",
		Short: "Quote the expected payout for a store price",
		Example: `  restocks payout --price 250 --method resale
  restocks payout --price 250 --method consignment --currency EUR`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}

			quote, err := c.GetPayout(context.Background(), price, parseSellMethod(method), currency)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(quote)
			}
			fmt.Printf("Store price %d %s via %s pays out %.2f %s\n",
				quote.StorePrice, quote.Currency, quote.SellMethod, quote.Amount, quote.Currency)
			return nil
		},
	}

	cmd.Flags().IntVar(&price, "price", 0, "store price")
	cmd.Flags().StringVar(&method, "method", "resale", "sell method (resale, consignment)")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code (default EUR)")

	return cmd
}

package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/restocksgo/restocks/pkg/restocks"
	domain "github.com/restocksgo/restocks/pkg/types"
)

// parseSellMethod accepts both the wire values and their short forms.
func parseSellMethod(s string) domain.SellMethod {
	switch s {
	case "consign", "consignment":
		return domain.SellConsign
	case "resell", "resale":
		return domain.SellResell
	default:
		return domain.SellMethod(s)
	}
}

func listingsCmd() *cobra.Command {
	listingsRoot := &cobra.Command{
		Use:   "listings",
		Short: "Manage your listings",
	}

	listingsRoot.AddCommand(
		listingsListCmd(),
		listingsSellCmd(),
		listingsEditCmd(),
		listingsDeleteCmd(),
	)

	return listingsRoot
}

func listingsListCmd() *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your active listings",
		Example: `  # All listings
  restocks listings list

  # Only consignment listings
  restocks listings list --method consignment`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()
			c, err := newAuthedClient(ctx)
			if err != nil {
				return err
			}

			var methods []domain.SellMethod
			if method != "" {
				methods = append(methods, parseSellMethod(method))
			}

			listings, err := c.GetCurrentListings(ctx, methods...)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(listings)
			}
			return printListings(listings)
		},
	}

	cmd.Flags().StringVar(&method, "method", "", "filter by sell method (resale, consignment)")

	return cmd
}

func listingsSellCmd() *cobra.Command {
	var (
		sku      string
		size     string
		price    int
		method   string
		duration int
	)

	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Create a listing",
		Example: `  restocks listings sell --sku DD1391-100 --size 42.5 --price 250 \
    --method resale --duration 60`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()
			c, err := newAuthedClient(ctx)
			if err != nil {
				return err
			}

			product, err := c.SearchProduct(ctx, restocks.SearchQuery{SKU: sku})
			if err != nil {
				return err
			}

			listing, err := c.ListProduct(
				ctx,
				product,
				size,
				parseSellMethod(method),
				domain.ListingDuration(duration),
				price,
			)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(listing)
			}
			fmt.Printf("Listed %s size %s at %d (listing %d)\n",
				listing.Name, listing.Size, listing.Price, listing.ListingID)
			return nil
		},
	}

	cmd.Flags().StringVar(&sku, "sku", "", "manufacturer SKU")
	cmd.Flags().StringVar(&size, "size", "", "size label, e.g. 42.5")
	cmd.Flags().IntVar(&price, "price", 0, "store price")
	cmd.Flags().StringVar(&method, "method", "resale", "sell method (resale, consignment)")
	cmd.Flags().IntVar(&duration, "duration", 60, "listing duration in days (30, 60, 90)")
	cobra.CheckErr(cmd.MarkFlagRequired("sku"))
	cobra.CheckErr(cmd.MarkFlagRequired("size"))
	cobra.CheckErr(cmd.MarkFlagRequired("price"))

	return cmd
}

func listingsEditCmd() *cobra.Command {
	var price int

	cmd := &cobra.Command{
		Use:   "edit <listing-id>",
		Short: "Change the price of a listing",
		Args:  cobra.ExactArgs(1),
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

			if err := c.EditListing(ctx, id, price); err != nil {
				return err
			}
			fmt.Printf("Listing %d updated to %d\n", id, price)
			return nil
		},
	}

	cmd.Flags().IntVar(&price, "price", 0, "new store price")
	cobra.CheckErr(cmd.MarkFlagRequired("price"))

	return cmd
}

func listingsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <listing-id>",
		Short: "Delete a listing",
		Args:  cobra.ExactArgs(1),
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

			if err := c.DeleteListing(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Listing %d deleted\n", id)
			return nil
		},
	}
}

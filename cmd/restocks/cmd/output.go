package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/restocksgo/restocks/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printProduct(p *domain.Product) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%d\n", p.ID)
	tw.writef("Name:\t%s\n", p.Name)
	tw.writef("SKU:\t%s\n", p.SKU)
	tw.writef("Slug:\t%s\n", p.Slug)
	if p.Brand != "" {
		tw.writef("Brand:\t%s\n", p.Brand)
	}
	if len(p.Variants) > 0 {
		tw.writef("\nSIZE\tSIZE ID\tPRICE\tIN STOCK\n")
		for i := range p.Variants {
			v := &p.Variants[i]
			tw.writef("%s\t%d\t%d\t%v\n", v.Size, v.SizeID, v.Price, !v.OutOfStock)
		}
	}
	return tw.finish()
}

func printListings(listings []domain.Listing) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("LISTING\tNAME\tSIZE\tPRICE\tMETHOD\n")
	for i := range listings {
		l := &listings[i]
		tw.writef("%d\t%s\t%s\t%d\t%s\n", l.ListingID, l.Name, l.Size, l.Price, l.SellMethod)
	}
	return tw.finish()
}

func printSales(sales []domain.SaleRecord) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("LISTING\tNAME\tSIZE\tPAYOUT\tDATE\n")
	for i := range sales {
		s := &sales[i]
		date := ""
		if !s.Date.IsZero() {
			date = s.Date.Format("2006-01-02")
		}
		tw.writef("%d\t%s\t%s\t%d\t%s\n", s.ListingID, s.Name, s.Size, s.Payout, date)
	}
	return tw.finish()
}

func printShippingTasks(tasks []domain.ShippingTask) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("LISTING\tNAME\tSIZE\tSHIP BEFORE\n")
	for i := range tasks {
		t := &tasks[i]
		deadline := ""
		if !t.ShipBefore.IsZero() {
			deadline = t.ShipBefore.Format("2006-01-02")
		}
		tw.writef("%d\t%s\t%s\t%s\n", t.ListingID, t.Name, t.Size, deadline)
	}
	return tw.finish()
}

// Package cli holds output helpers shared by the ecofinder and eco commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"unicode/utf8"

	domain "github.com/donaldgifford/ecofinder/pkg/types"
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

// PrintProducts writes a product table followed by a paging summary.
func PrintProducts(w io.Writer, products []domain.Product, paging domain.Paging) error {
	tw := newTabWriter(w)
	tw.writef("ID\tTITLE\tPRICE\tECO\tURL\n")
	for i := range products {
		p := &products[i]
		eco := ""
		if p.Ecological {
			eco = "yes"
		}
		tw.writef("%s\t%s\t%.2f %s\t%s\t%s\n",
			p.ID,
			Truncate(p.Title, 50),
			p.Price,
			p.Currency,
			eco,
			p.Permalink,
		)
	}
	if err := tw.finish(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d of %d results (offset %d) on %s via %s",
		len(products), paging.Total, paging.Offset, paging.RegionUsed, paging.Strategy)
	if err != nil {
		return err
	}
	if paging.UsedFallback {
		if _, err := io.WriteString(w, ", fallback region"); err != nil {
			return err
		}
	}
	if paging.UsedQuery != "" {
		if _, err := fmt.Fprintf(w, ", query %q", paging.UsedQuery); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// PrintFields writes aligned "key: value" lines.
func PrintFields(w io.Writer, fields [][2]string) error {
	tw := newTabWriter(w)
	for _, f := range fields {
		tw.writef("%s:\t%s\n", f[0], f[1])
	}
	return tw.finish()
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Truncate shortens s to at most maxLen runes, marking the cut with "...".
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen-3]) + "..."
}

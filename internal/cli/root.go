// Package cli implements invoicectl, the command line companion of the API.
package cli

import (
	"context"
	"errors"

	"diamondtrade/internal/printing"
	"diamondtrade/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "1.0.0"

var errPDFDisabled = errors.New("pdf export is disabled (set PDF_ENABLED=true)")

// Backend is what the storage-backed commands need.
type Backend struct {
	Invoices  service.InvoiceService
	Templates *printing.TemplateEngine
	PDF       printing.PDFRenderer // nil when PDF export is disabled
	Close     func() error
}

// Opener connects a Backend. Commands that only compute, like preview, never
// call it.
type Opener func(ctx context.Context) (*Backend, error)

// NewRootCommand assembles the command tree.
func NewRootCommand(open Opener, log *zap.Logger) *cobra.Command {
	if log == nil {
		log = zap.NewNop()
	}

	root := &cobra.Command{
		Use:   "invoicectl",
		Short: "Inspect, preview and print diamond invoices",
		Long: `invoicectl works against the same database as the API server.

It prints invoice summaries with Indian rupee formatting, renders invoices
to HTML or PDF, and previews the summary of a set of entries from a JSON
file without storing anything.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSummaryCommand(open, log),
		newPrintCommand(open, log),
		newPreviewCommand(log),
	)
	return root
}

func withBackend(ctx context.Context, open Opener, fn func(*Backend) error) error {
	if open == nil {
		return errors.New("no database configured")
	}
	b, err := open(ctx)
	if err != nil {
		return err
	}
	if b.Close != nil {
		defer b.Close()
	}
	return fn(b)
}

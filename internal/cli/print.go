package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"diamondtrade/internal/printing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPrintCommand(open Opener, log *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print <invoice-number>",
		Short: "Render a stored invoice to HTML or PDF",
		Example: `  # HTML to stdout
  invoicectl print INV-20240305-00001

  # PDF through headless Chrome
  invoicectl print INV-20240305-00001 --pdf -o invoice.pdf`,
		Args: cobra.ExactArgs(1),
	}
	output := cmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	asPDF := cmd.Flags().Bool("pdf", false, "Render PDF instead of HTML")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		number := strings.TrimSpace(args[0])
		ctx := cmd.Context()

		return withBackend(ctx, open, func(b *Backend) error {
			if *asPDF && b.PDF == nil {
				return errPDFDisabled
			}

			detail, err := b.Invoices.GetInvoiceByNumber(ctx, number)
			if err != nil {
				return fmt.Errorf("failed to load invoice %s: %w", number, err)
			}

			html, err := b.Templates.RenderInvoice(ctx, printing.NewInvoiceDocument(detail))
			if err != nil {
				return err
			}

			data := []byte(html)
			if *asPDF {
				if data, err = b.PDF.RenderPDF(ctx, html); err != nil {
					return err
				}
			}

			if err := writeOutput(cmd.OutOrStdout(), *output, data); err != nil {
				return err
			}
			log.Info("Invoice rendered",
				zap.String("invoice_number", number),
				zap.Bool("pdf", *asPDF),
				zap.Int("bytes", len(data)),
				zap.String("output", *output))
			return nil
		})
	}
	return cmd
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

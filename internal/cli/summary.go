package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"diamondtrade/internal/invoicecalc"
	"diamondtrade/internal/service"
	"diamondtrade/pkg/format"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSummaryCommand(open Opener, log *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <invoice-number>",
		Short: "Show the category summary of a stored invoice",
		Example: `  invoicectl summary INV-20240305-00001
  invoicectl summary INV-20240305-00001 --json`,
		Args: cobra.ExactArgs(1),
	}
	asJSON := cmd.Flags().Bool("json", false, "Print the summary as JSON")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		number := strings.TrimSpace(args[0])
		log.Debug("Loading invoice", zap.String("invoice_number", number))

		return withBackend(cmd.Context(), open, func(b *Backend) error {
			detail, err := b.Invoices.GetInvoiceByNumber(cmd.Context(), number)
			if err != nil {
				return fmt.Errorf("failed to load invoice %s: %w", number, err)
			}
			if *asJSON {
				return writeJSON(cmd.OutOrStdout(), detail)
			}
			writeInvoiceHeader(cmd.OutOrStdout(), detail)
			return writeSummary(cmd.OutOrStdout(), detail.Summary)
		})
	}
	return cmd
}

func writeInvoiceHeader(w io.Writer, detail service.InvoiceDetail) {
	inv := detail.Invoice
	fmt.Fprintf(w, "Invoice %s\n", inv.InvoiceNumber)
	fmt.Fprintf(w, "Client:  %s\n", detail.Client.Name)
	fmt.Fprintf(w, "Issued:  %s  Due: %s\n",
		format.FormatTime(&inv.IssueDate, format.DateShort),
		format.FormatTime(&inv.DueDate, format.DateShort))

	status := inv.Status
	if inv.PaymentDate != nil {
		status += " on " + format.FormatTime(inv.PaymentDate, format.DateShort)
	}
	if inv.PaymentMethod != nil {
		status += " via " + *inv.PaymentMethod
	}
	fmt.Fprintf(w, "Status:  %s\n\n", status)
}

// writeSummary prints the two category rows and the grand total as an
// aligned table.
func writeSummary(w io.Writer, s invoicecalc.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Category\tPieces\tWeight\tRate\tValue\t")
	fmt.Fprintf(tw, "%s\t%d\t%s\t%s / ct\t%s\t\n", invoicecalc.LabelPlus,
		s.PlusCount, format.FormatWeight(s.PlusWeight), format.FormatCurrency(s.PlusRate), format.FormatCurrency(s.PlusValue))
	fmt.Fprintf(tw, "%s\t%d\t%s\t%s / pc\t%s\t\n", invoicecalc.LabelMinus,
		s.MinusCount, format.FormatWeight(s.MinusWeight), format.FormatCurrency(s.MinusRate), format.FormatCurrency(s.MinusValue))
	fmt.Fprintf(tw, "Grand Total\t\t\t\t%s\t\n", format.FormatCurrency(s.GrandTotal))
	return tw.Flush()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

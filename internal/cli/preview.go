package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"diamondtrade/internal/invoicecalc"
	"diamondtrade/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPreviewCommand(log *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Summarize entries from a JSON file without storing them",
		Long: `Reads either a JSON array of entries or an object with an "entries"
array (the body accepted by POST /api/invoices/preview) and prints the
category summary.`,
		Example: `  invoicectl preview -f entries.json
  cat entries.json | invoicectl preview -f - --total 29000
  invoicectl preview -f entries.json --plus-rate 5000 --minus-rate 150 --json`,
		Args: cobra.NoArgs,
	}
	file := cmd.Flags().StringP("file", "f", "", "Entries file, - for stdin")
	total := cmd.Flags().String("total", "", "Stored invoice total that overrides the computed sum")
	plusRate := cmd.Flags().String("plus-rate", "", "Fallback rate per carat for 4P Plus")
	minusRate := cmd.Flags().String("minus-rate", "", "Fallback rate per piece for 4P Minus")
	asJSON := cmd.Flags().Bool("json", false, "Print the summary as JSON")
	_ = cmd.MarkFlagRequired("file")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		raw, err := readInput(cmd.InOrStdin(), *file)
		if err != nil {
			return err
		}
		req, err := parsePreview(raw)
		if err != nil {
			return err
		}

		overrides := []struct {
			flag  string
			value string
			dst   **decimal.Decimal
		}{
			{"total", *total, &req.TotalAmount},
			{"plus-rate", *plusRate, &req.PlusRate},
			{"minus-rate", *minusRate, &req.MinusRate},
		}
		for _, o := range overrides {
			if o.value == "" {
				continue
			}
			d, err := decimal.NewFromString(o.value)
			if err != nil {
				return fmt.Errorf("invalid --%s %q: %w", o.flag, o.value, err)
			}
			*o.dst = &d
		}

		summary := service.BuildPreview(req)
		log.Debug("Preview computed",
			zap.Int("entries", len(req.Entries)),
			zap.String("grand_total", summary.GrandTotal.String()))

		if *asJSON {
			return writeJSON(cmd.OutOrStdout(), summary)
		}
		return writeSummary(cmd.OutOrStdout(), summary)
	}
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// parsePreview accepts a bare entry array or a full preview request.
func parsePreview(raw []byte) (service.PreviewRequest, error) {
	var req service.PreviewRequest
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return req, fmt.Errorf("no entries given")
	}

	if trimmed[0] == '[' {
		var entries []invoicecalc.EntryInput
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return req, fmt.Errorf("failed to parse entries: %w", err)
		}
		req.Entries = entries
		return req, nil
	}

	if err := json.Unmarshal(trimmed, &req); err != nil {
		return req, fmt.Errorf("failed to parse preview request: %w", err)
	}
	return req, nil
}

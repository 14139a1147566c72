package printing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultPDFTimeout = 30 * time.Second
	a4WidthMM         = 210
	a4HeightMM        = 297
	defaultMarginMM   = 10
)

var (
	ErrEmptyHTML     = errors.New("html content is empty")
	ErrRenderTimeout = errors.New("pdf rendering timed out")
)

// PDFRenderer prints an HTML document to PDF bytes.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
	Close() error
}

// ChromedpConfig configures ChromedpRenderer. An empty RemoteURL launches a
// local headless Chrome.
type ChromedpConfig struct {
	RemoteURL string
	Timeout   time.Duration
	NoSandbox bool
}

// ChromedpRenderer renders HTML to PDF using the Chrome DevTools Protocol.
type ChromedpRenderer struct {
	cfg         ChromedpConfig
	log         *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func NewChromedpRenderer(cfg ChromedpConfig, log *zap.Logger) *ChromedpRenderer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultPDFTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	r := &ChromedpRenderer{cfg: cfg, log: log}
	if cfg.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
	} else {
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), allocatorOptions(cfg)...)
	}
	return r
}

func allocatorOptions(cfg ChromedpConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	return opts
}

// printParams are page settings in inches, as Chrome expects them.
type printParams struct {
	paperWidth  float64
	paperHeight float64
	margin      float64
}

func a4Params() printParams {
	return printParams{
		paperWidth:  mmToInches(a4WidthMM),
		paperHeight: mmToInches(a4HeightMM),
		margin:      mmToInches(defaultMarginMM),
	}
}

// RenderPDF loads html into a blank tab and prints it on A4.
func (r *ChromedpRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, ErrEmptyHTML
	}
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.log.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// The tab lives under the allocator, so tie it to the request deadline.
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	params := a4Params()
	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(params.paperWidth).
				WithPaperHeight(params.paperHeight).
				WithMarginTop(params.margin).
				WithMarginRight(params.margin).
				WithMarginBottom(params.margin).
				WithMarginLeft(params.margin).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %v", ErrRenderTimeout, r.cfg.Timeout)
		}
		r.log.Error("chromedp rendering failed", zap.Error(err))
		return nil, fmt.Errorf("chromedp execution failed: %w", err)
	}
	if len(pdf) == 0 {
		return nil, errors.New("generated PDF is empty")
	}

	r.log.Info("PDF rendered",
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", time.Since(start)))
	return pdf, nil
}

// Close shuts down the browser allocator.
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)

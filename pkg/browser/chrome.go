package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ChromeOptions process flags of the launched browser
type ChromeOptions struct {
	ExecPath  string // empty: chromedp looks up Chrome/Chromium on PATH
	NoSandbox bool   // required in most containers
}

// ChromeLauncher starts a dedicated headless Chrome process per Launch
type ChromeLauncher struct {
	opts   ChromeOptions
	logger *zap.Logger
}

// NewChromeLauncher creates a ChromeLauncher
func NewChromeLauncher(opts ChromeOptions, logger *zap.Logger) *ChromeLauncher {
	return &ChromeLauncher{opts: opts, logger: logger}
}

// Launch starts the browser process. The returned Instance owns it until Close.
// The process lifetime is not tied to ctx: only Close tears it down.
func (l *ChromeLauncher) Launch(ctx context.Context) (Instance, error) {
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if l.opts.NoSandbox {
		allocOpts = append(allocOpts,
			chromedp.NoSandbox,
			chromedp.Flag("disable-setuid-sandbox", true),
		)
	}
	if l.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(l.opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// the first Run starts the process
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	l.logger.Debug("browser launched")
	return &chromeInstance{
		ctx:           browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		logger:        l.logger,
	}, nil
}

type chromeInstance struct {
	ctx           context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	logger        *zap.Logger
}

// Render loads job.HTML in a new tab, calls the entrypoint, settles and prints
func (b *chromeInstance) Render(ctx context.Context, job Job) ([]byte, error) {
	expr, err := callExpression(job.Entrypoint, job.Data)
	if err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(b.ctx)
	defer cancelTab()

	// cancel the tab when the caller gives up
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var pdf []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		setContent(job.HTML),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(expr, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		settle(job),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := printParams(job.PDF).Do(ctx)
			if err != nil {
				return fmt.Errorf("print to pdf: %w", err)
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

// Close terminates the browser process
func (b *chromeInstance) Close() error {
	err := chromedp.Cancel(b.ctx)
	b.cancelBrowser()
	b.cancelAlloc()
	if err != nil {
		b.logger.Warn("browser did not shut down cleanly", zap.Error(err))
		return err
	}
	b.logger.Debug("browser closed")
	return nil
}

func setContent(html string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return fmt.Errorf("get frame tree: %w", err)
		}
		if err := page.SetDocumentContent(tree.Frame.ID, html).Do(ctx); err != nil {
			return fmt.Errorf("set template content: %w", err)
		}
		return nil
	})
}

func settle(job Job) chromedp.Action {
	if job.SettleSignal != "" {
		var ready bool
		return chromedp.Poll(job.SettleSignal, &ready, chromedp.WithPollingTimeout(job.SignalTimeout))
	}
	return chromedp.Sleep(job.SettleDelay)
}

func printParams(o PDFOptions) *page.PrintToPDFParams {
	return page.PrintToPDF().
		WithPaperWidth(o.PaperWidthIn).
		WithPaperHeight(o.PaperHeightIn).
		WithMarginTop(mmToIn(o.MarginTopMM)).
		WithMarginBottom(mmToIn(o.MarginBottomMM)).
		WithMarginLeft(mmToIn(o.MarginLeftMM)).
		WithMarginRight(mmToIn(o.MarginRightMM)).
		WithPrintBackground(o.PrintBackground).
		WithDisplayHeaderFooter(true).
		WithHeaderTemplate(o.HeaderTemplate).
		WithFooterTemplate(o.FooterTemplate)
}

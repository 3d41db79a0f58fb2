package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// MinContentLength is the minimum extracted text length to consider HTTP fetch successful.
// If content is shorter, we should fall back to browser rendering.
const MinContentLength = 500

// RenderFunc returns the fully rendered HTML of a page.
type RenderFunc func(ctx context.Context, url string) (string, error)

// ShouldUseBrowser returns true if the extracted text is too short,
// indicating the page is likely rendered client-side.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, logger zerolog.Logger) (string, error) {
	logger.Debug().Str("url", url).Msg("starting headless browser")

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Give client-side frameworks time to render program listings
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}

	logger.Debug().Str("url", url).Int("bytes", len(html)).Msg("rendered page")
	return html, nil
}

// ChromeRenderer returns a RenderFunc backed by WithBrowser.
func ChromeRenderer(timeout time.Duration, logger zerolog.Logger) RenderFunc {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return func(ctx context.Context, url string) (string, error) {
		return WithBrowser(ctx, url, timeout, logger)
	}
}

// PageWithFallback fetches a page over HTTP and, when the text is too thin and a
// renderer is available, re-renders it in a browser. A browser failure keeps the
// HTTP result.
func PageWithFallback(ctx context.Context, urlStr string, opts *Options, render RenderFunc, logger zerolog.Logger) (*Result, error) {
	result, err := Page(ctx, urlStr, opts)
	if render == nil {
		return result, err
	}
	if err == nil && !ShouldUseBrowser(result.Text) {
		return result, nil
	}
	if err != nil {
		if ValidateURL(urlStr) != nil {
			return result, err
		}
		logger.Debug().Err(err).Str("url", urlStr).Msg("http fetch failed, trying browser")
	}

	html, renderErr := render(ctx, urlStr)
	if renderErr != nil {
		logger.Debug().Err(renderErr).Str("url", urlStr).Msg("browser fallback failed")
		if err != nil {
			return result, err
		}
		return result, nil
	}

	text, extractErr := ExtractMainText(html, ProviderPageSelectors())
	if extractErr != nil {
		return nil, fmt.Errorf("failed to extract rendered text: %w", extractErr)
	}
	return &Result{URL: urlStr, HTML: html, Text: text, StatusCode: 200, Rendered: true}, nil
}

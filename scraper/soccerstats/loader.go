package soccerstats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/grauwolf32/soccer/utils"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ErrUnexpectedStatus is returned for non-200 page responses.
var ErrUnexpectedStatus = errors.New("soccerstats: unexpected response status")

// PageLoader fetches the HTML of a page.
type PageLoader interface {
	Load(ctx context.Context, url string) ([]byte, error)
	Close() error
}

// HTTPLoader loads pages with plain HTTP requests. Retries on connection
// errors and 5xx/429 responses are handled by retryablehttp.
type HTTPLoader struct {
	client *retryablehttp.Client
}

// NewHTTPLoader creates an HTTPLoader with the given retry budget and
// per-request timeout.
func NewHTTPLoader(maxRetries int, timeout time.Duration) *HTTPLoader {
	client := retryablehttp.NewClient()
	client.Logger = log.New(io.Discard, "", 0)
	client.RetryMax = maxRetries
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 10 * time.Second
	if timeout > 0 {
		client.HTTPClient.Timeout = timeout
	}
	return &HTTPLoader{client: client}
}

func (l *HTTPLoader) Load(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("soccerstats: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("soccerstats: get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("soccerstats: read %s: %w", url, err)
	}
	return body, nil
}

func (l *HTTPLoader) Close() error {
	l.client.HTTPClient.CloseIdleConnections()
	return nil
}

// BrowserLoader renders pages in a shared headless Chrome instance, one tab
// per load.
type BrowserLoader struct {
	logger  *utils.Logger
	retry   *utils.RetryConfig
	timeout time.Duration

	browserCtx context.Context
	cancel     context.CancelFunc
}

// NewBrowserLoader starts headless Chrome. chromeBin may be empty, in which
// case well-known install locations are searched.
func NewBrowserLoader(logger *utils.Logger, chromeBin string, maxRetries int, timeout time.Duration) (*BrowserLoader, error) {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	logger.Info("[soccerstats] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.UserAgent(userAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Starts the browser so a missing binary fails here rather than on the first page.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("soccerstats: start browser: %w", err)
	}

	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}
	return &BrowserLoader{
		logger:     logger,
		retry:      &utils.RetryConfig{MaxAttempts: maxRetries, BaseDelay: 2 * time.Second, Logger: logger},
		timeout:    timeout,
		browserCtx: browserCtx,
		cancel:     cancel,
	}, nil
}

func (l *BrowserLoader) Load(ctx context.Context, url string) ([]byte, error) {
	var html string

	err := l.retry.DoContext(ctx, "load "+url, func(ctx context.Context) error {
		tabCtx, cancelTab := chromedp.NewContext(l.browserCtx)
		defer cancelTab()
		stop := context.AfterFunc(ctx, cancelTab)
		defer stop()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, l.timeout)
		defer cancelTimeout()

		return chromedp.Run(tabCtx,
			chromedp.Navigate(url),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("soccerstats: render %s: %w", url, err)
	}
	return []byte(html), nil
}

func (l *BrowserLoader) Close() error {
	l.cancel()
	return nil
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	for _, name := range []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	for _, p := range []string{
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

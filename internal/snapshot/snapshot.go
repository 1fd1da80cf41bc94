// Package snapshot captures rendered result pages as PNG images using a
// headless Chrome session.
package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"

	"github.com/jgoulah/energycalc/pkg/models"
)

// screenshotQuality must stay 100: chromedp encodes any other quality as JPEG
const screenshotQuality = 100

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// Options controls the browser used for a capture
type Options struct {
	Width   int
	Height  int
	Visible bool          // Show the browser window (for debugging)
	Timeout time.Duration // Zero means one minute
	Settle  time.Duration // Extra wait for charts to draw after the result appears
}

// ResultURL builds the GET form URL that renders the profile's result page
func ResultURL(baseURL string, p models.HouseholdProfile) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/estimate")
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	q := url.Values{}
	q.Set("name", p.Name)
	q.Set("age", strconv.Itoa(p.Age))
	q.Set("city", p.City)
	q.Set("area", p.Area)
	q.Set("dwelling", p.Dwelling.String())
	q.Set("housing", p.Housing.String())
	for _, a := range p.AppliancesInUse() {
		q.Set(a.Key(), "yes")
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Capture loads pageURL and returns a full-page PNG screenshot once the
// result section is visible.
func Capture(ctx context.Context, pageURL string, opts Options) ([]byte, error) {
	buf, err := captureScreenshot(ctx, pageURL, opts)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(buf, pngSignature) {
		return nil, fmt.Errorf("capturing %s: screenshot is not a PNG image", pageURL)
	}
	return buf, nil
}

// captureScreenshot drives the browser. Replaced in tests.
var captureScreenshot = func(ctx context.Context, pageURL string, opts Options) ([]byte, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !opts.Visible),
		chromedp.WindowSize(opts.Width, opts.Height),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(browserCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return emulation.SetDeviceMetricsOverride(int64(opts.Width), int64(opts.Height), 1, false).Do(ctx)
		}),
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible(".energy-result", chromedp.ByQuery),
		chromedp.Sleep(opts.Settle),
		chromedp.FullScreenshot(&buf, screenshotQuality),
	); err != nil {
		return nil, fmt.Errorf("capturing %s: %w", pageURL, err)
	}

	return buf, nil
}

package discover

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultLoadMoreClicks is how many times a deep pull expands the index by
// default. Five clicks reach roughly a year of patch history.
const DefaultLoadMoreClicks = 5

// loadMoreDelay gives the index time to append a page of results after each
// click before the next one is attempted.
const loadMoreDelay = 1500 * time.Millisecond

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// clickLoadMore finds the index page's expand button by its label and clicks
// it, reporting whether a button was present.
const clickLoadMore = `(() => {
	const buttons = Array.from(document.querySelectorAll('button'));
	const target = buttons.find(b => b.textContent.includes('더 보기'));
	if (!target) {
		return false;
	}
	target.click();
	return true;
})()`

// FetchWithLoadMore renders the index in a headless browser, clicks the
// "load more" button up to clicks times, and returns the expanded markup.
// The routine incremental pull reads the index statically; this path exists
// for the deep historical pull where older links are only revealed through
// the button.
func FetchWithLoadMore(ctx context.Context, url string, clicks int) (string, error) {
	if clicks <= 0 {
		clicks = DefaultLoadMoreClicks
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(browserUserAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	); err != nil {
		return "", fmt.Errorf("navigate %s: %w", url, err)
	}

	for i := 0; i < clicks; i++ {
		var clicked bool
		if err := chromedp.Run(browserCtx,
			chromedp.Evaluate(clickLoadMore, &clicked),
			chromedp.Sleep(loadMoreDelay),
		); err != nil {
			return "", fmt.Errorf("expand index: %w", err)
		}
		if !clicked {
			// The button disappears once all history is shown.
			break
		}
	}

	var html string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read expanded markup: %w", err)
	}
	return html, nil
}

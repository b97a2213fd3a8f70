package gflights

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"flight-monitor/config"
	"flight-monitor/models"
	"flight-monitor/utils"
)

// consentHost is the host the site redirects first-time EU sessions to.
const consentHost = "consent.google"

// Localized accept-button labels, tried in priority order. The redirect
// interstitial and the in-page overlay use slightly different sets.
var (
	redirectAcceptLabels = []string{"Accept all", "Accetta tutto", "Accept", "Accetta"}
	overlayAcceptLabels  = []string{"Accept all", "Accetta tutto", "Reject all", "Accept"}
)

// resultSelectors mark the results container, in priority order.
var resultSelectors = []string{
	`[jsname="IWWDBc"]`,
	`[jsname="YdtKid"]`,
	`ul.Rk10dc`,
	`[role="main"] li`,
}

const (
	resultsPathWait = 15 * time.Second
	selectorBudget  = 20 * time.Second
	settleDelay     = 5 * time.Second
)

// Scraper drives a headless Chrome against the fare-results pages. One
// browser allocator lives for the whole run; each search gets a fresh tab
// that is closed unconditionally on every exit path.
type Scraper struct {
	cfg         *config.Config
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func NewScraper(cfg *config.Config) (*Scraper, error) {
	utils.Info("Launching Chrome browser...")
	allocCtx, allocCancel := chromedp.NewExecAllocator(
		context.Background(),
		utils.StealthOpts(cfg.Headless)...,
	)
	utils.Success("Browser ready")
	return &Scraper{
		cfg:         cfg,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}, nil
}

func (s *Scraper) Close() {
	utils.Info("Closing browser...")
	s.allocCancel()
}

// Search fetches and parses the result cards for one query. Errors are
// per-search: the caller logs, counts and moves on to the next query.
func (s *Scraper) Search(ctx context.Context, q models.FlightQuery) ([]models.RawListing, error) {
	queryURL := BuildURL(q)

	var listings []models.RawListing
	err := utils.Retry(s.cfg.MaxRetries, func() error {
		var ferr error
		listings, ferr = s.fetch(ctx, queryURL)
		return ferr
	})
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *Scraper) fetch(parent context.Context, queryURL string) ([]models.RawListing, error) {
	tabCtx, tabCancel := chromedp.NewContext(s.allocCtx)
	defer tabCancel()

	ctx, cancel := context.WithTimeout(tabCtx, s.cfg.SearchTimeout())
	defer cancel()

	// Propagate caller cancellation into the tab.
	stop := context.AfterFunc(parent, cancel)
	defer stop()

	err := chromedp.Run(ctx,
		chromedp.Navigate(queryURL),
		utils.HideWebDriver(),
	)
	if err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}

	var loc string
	if err := chromedp.Run(ctx, chromedp.Location(&loc)); err != nil {
		return nil, fmt.Errorf("location: %w", err)
	}

	// Regional consent interstitial: click through and wait to be routed
	// back to the results path. Failure here is tolerated — the
	// interstitial does not always block results.
	if strings.Contains(loc, consentHost) {
		clickFirstLabel(ctx, redirectAcceptLabels)
		s.waitForResultsPath(ctx)
	}

	// In-page consent overlay, same label strategy, absence tolerated.
	_ = chromedp.Run(ctx, chromedp.Sleep(2*time.Second))
	clickFirstLabel(ctx, overlayAcceptLabels)

	if !s.waitForResults(ctx) {
		// Degraded path: no known container appeared; let the page settle
		// and classify whatever is there.
		utils.Warn("No result container matched, falling back to settle delay")
		if err := chromedp.Run(ctx,
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Sleep(settleDelay),
		); err != nil {
			return nil, fmt.Errorf("settle wait: %w", err)
		}
	}

	var cards []card
	if err := chromedp.Run(ctx, chromedp.Evaluate(extractCardsJS, &cards)); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	if len(cards) == 0 {
		// Secondary pass: run the same per-node classification over the
		// captured markup with a broader selector set.
		var mainHTML string
		if err := chromedp.Run(ctx, chromedp.Evaluate(mainHTMLJS, &mainHTML)); err == nil && mainHTML != "" {
			cards = fallbackCards(mainHTML)
		}
	}

	return buildListings(cards), nil
}

// waitForResultsPath polls the tab location until it is back on the results
// path, giving up silently after resultsPathWait.
func (s *Scraper) waitForResultsPath(ctx context.Context) {
	deadline := time.Now().Add(resultsPathWait)
	for time.Now().Before(deadline) {
		var loc string
		if err := chromedp.Run(ctx, chromedp.Location(&loc)); err != nil {
			return
		}
		if strings.Contains(loc, "/travel/flights") {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// waitForResults tries each known container selector under a shared budget,
// short-circuiting on the first that appears.
func (s *Scraper) waitForResults(ctx context.Context) bool {
	perSelector := selectorBudget / time.Duration(len(resultSelectors))
	for _, sel := range resultSelectors {
		selCtx, cancel := context.WithTimeout(ctx, perSelector)
		err := chromedp.Run(selCtx, chromedp.WaitReady(sel, chromedp.ByQuery))
		cancel()
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
	}
	return false
}

// clickFirstLabel tries each button label in priority order and stops at the
// first one actually clicked. Individual failures are skipped silently; the
// caller proceeds whether or not anything was clicked.
func clickFirstLabel(ctx context.Context, labels []string) bool {
	for _, label := range labels {
		script := fmt.Sprintf(clickButtonJS, strconv.Quote(label))
		var clicked bool
		if err := chromedp.Run(ctx, chromedp.Evaluate(script, &clicked)); err != nil {
			continue
		}
		if clicked {
			_ = chromedp.Run(ctx, chromedp.Sleep(time.Second))
			return true
		}
	}
	return false
}

const clickButtonJS = `(() => {
	const want = %s;
	for (const b of document.querySelectorAll('button')) {
		const t = (b.innerText || '').trim();
		if (t && t.includes(want)) {
			b.click();
			return true;
		}
	}
	return false;
})()`

// extractCardsJS pulls listing candidates out of the primary result
// containers. A node qualifies only when its text carries a currency-prefixed
// price token; classification of the fragments happens Go-side.
const extractCardsJS = `(() => {
	const cards = [];
	for (const list of document.querySelectorAll('ul.Rk10dc')) {
		for (const item of list.querySelectorAll('li')) {
			const allText = item.innerText || '';
			if (!allText || allText.length < 10) continue;

			const priceMatch = allText.match(/[€$£][\d,.]+/);
			if (!priceMatch) continue;

			const texts = [];
			for (const el of item.querySelectorAll('span, div')) {
				const t = (el.innerText || '').trim();
				if (t && t.length < 100) texts.push(t);
			}
			cards.push({ price: priceMatch[0], texts: texts });
		}
	}
	return cards;
})()`

const mainHTMLJS = `(() => {
	const main = document.querySelector('[role="main"]');
	return main ? main.innerHTML : '';
})()`

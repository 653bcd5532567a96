package util

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"careersync-engine/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

// UserAgent is sent on requests to endpoints that reject the default Go
// client string.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// LocationHydrator fills a posting's location by fetching its detail page
// when the listing API does not carry one. Best effort: any failure leaves
// the posting untouched.
type LocationHydrator struct {
	hc      *http.Client
	limiter *HostLimiter
}

func NewLocationHydrator(limiter *HostLimiter) *LocationHydrator {
	return &LocationHydrator{
		hc:      &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
	}
}

var locationSelectors = []string{
	"[itemprop='jobLocation']",
	"[data-qa='location']",
	".location",
	"[class*='location']",
}

func (h *LocationHydrator) Hydrate(ctx context.Context, p *domain.Posting) error {
	if p.URL == "" || p.Location != "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", UserAgent)

	if h.limiter != nil {
		if err := h.limiter.WaitURL(ctx, p.URL); err != nil {
			return err
		}
	}

	res, err := h.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return fmt.Errorf("detail page status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return err
	}

	for _, sel := range locationSelectors {
		if t := CleanText(doc.Find(sel).First().Text()); t != "" {
			p.Location = t
			return nil
		}
	}
	return nil
}

package daangn

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"careersync-engine/internal/domain"
	"careersync-engine/internal/fetch"
	"careersync-engine/internal/fetch/util"
)

const vendor = "daangn"

// The careers site is a static Gatsby build; the page-data document for the
// business listing page carries the full posting set in one fetch.
const defaultPageDataURL = "https://about.daangn.com/page-data/jobs/business/page-data.json"

var corporateNames = map[string]string{
	"KARROT_MARKET": "Karrot Market",
	"KARROT_PAY":    "Karrot Pay",
	"KARROT":        "Karrot",
}

type Config struct {
	BaseURL        string
	EmploymentType string // client-side filter; the endpoint has none
}

type Client struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(cfg Config, limiter *util.HostLimiter) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultPageDataURL
	}
	if cfg.EmploymentType == "" {
		cfg.EmploymentType = "FULL_TIME"
	}
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
	}
}

func (c *Client) Name() string { return vendor }

type pageData struct {
	Result struct {
		Data struct {
			AllDepartmentFilteredJobPost struct {
				Nodes []jobPost `json:"nodes"`
			} `json:"allDepartmentFilteredJobPost"`
		} `json:"data"`
	} `json:"result"`
}

type jobPost struct {
	GhID           fetch.FlexID `json:"ghId"`
	Title          string       `json:"title"`
	Corporate      string       `json:"corporate"`
	EmploymentType string       `json:"employmentType"`
	AbsoluteURL    string       `json:"absoluteUrl"`
}

func (c *Client) Fetch(ctx context.Context) ([]domain.Posting, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL, nil)
	if err != nil {
		return nil, &fetch.FetchError{Vendor: vendor, Err: err}
	}

	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, c.cfg.BaseURL); err != nil {
			return nil, &fetch.FetchError{Vendor: vendor, Err: err}
		}
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, &fetch.FetchError{Vendor: vendor, Err: fmt.Errorf("get page data: %w", err)}
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fetch.Errf(vendor, "page data status %d", res.StatusCode)
	}

	var pd pageData
	if err := json.NewDecoder(res.Body).Decode(&pd); err != nil {
		return nil, &fetch.FetchError{Vendor: vendor, Err: fmt.Errorf("decode page data: %w", err)}
	}

	nodes := pd.Result.Data.AllDepartmentFilteredJobPost.Nodes
	log.Printf("[daangn] %d business postings in page data", len(nodes))

	now := time.Now()
	var out []domain.Posting
	for _, n := range nodes {
		if n.EmploymentType != c.cfg.EmploymentType {
			continue
		}
		company := corporateNames[n.Corporate]
		if company == "" {
			company = n.Corporate
		}
		out = append(out, domain.Posting{
			ID:             n.GhID.String(),
			Title:          n.Title,
			Company:        company,
			Category:       "Business",
			EmploymentType: displayEmployment(n.EmploymentType),
			ClosesOn:       domain.OngoingDate(),
			URL:            n.AbsoluteURL,
			CollectedAt:    now,
		})
	}

	log.Printf("[daangn] fetched %d postings after employment filter", len(out))
	return out, nil
}

func displayEmployment(raw string) string {
	if raw == "FULL_TIME" {
		return "Full-time"
	}
	return raw
}

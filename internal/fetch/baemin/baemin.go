package baemin

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"careersync-engine/internal/domain"
	"careersync-engine/internal/fetch"
	"careersync-engine/internal/fetch/util"
)

const vendor = "baemin"

// The query pins the scope server-side, so company, category and employment
// type are fixed display strings rather than payload fields.
const (
	defaultJobGroupCodes       = "BA005010" // Business & Sales
	defaultEmploymentTypeCodes = "BA002001" // full-time

	companyName    = "Woowa Brothers"
	categoryName   = "Business & Sales"
	employmentName = "Full-time"
)

type Config struct {
	BaseURL             string
	JobGroupCodes       string
	EmploymentTypeCodes string
}

type Client struct {
	cfg      Config
	hc       *http.Client
	limiter  *util.HostLimiter
	hydrator *util.LocationHydrator
}

func New(cfg Config, limiter *util.HostLimiter, hydrator *util.LocationHydrator) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://career.woowahan.com/w1/recruits"
	}
	if cfg.JobGroupCodes == "" {
		cfg.JobGroupCodes = defaultJobGroupCodes
	}
	if cfg.EmploymentTypeCodes == "" {
		cfg.EmploymentTypeCodes = defaultEmploymentTypeCodes
	}
	return &Client{
		cfg:      cfg,
		hc:       &http.Client{Timeout: 30 * time.Second},
		limiter:  limiter,
		hydrator: hydrator,
	}
}

func (c *Client) Name() string { return vendor }

type recruitsResponse struct {
	Code    fetch.FlexID `json:"code"`
	Message string       `json:"message"`
	Data    struct {
		List      []recruit `json:"list"`
		TotalSize int       `json:"totalSize"`
	} `json:"data"`
}

type recruit struct {
	RecruitNumber   fetch.FlexID `json:"recruitNumber"`
	RecruitName     string       `json:"recruitName"`
	RecruitOpenDate string       `json:"recruitOpenDate"`
	RecruitEndDate  string       `json:"recruitEndDate"`
}

// Fetch is a single request; the recruits endpoint returns the full active
// set for the filtered scope. A non-"2000" result code in the body means
// the vendor rejected the request even if HTTP said 200.
func (c *Client) Fetch(ctx context.Context) ([]domain.Posting, error) {
	q := url.Values{}
	q.Set("jobGroupCodes", c.cfg.JobGroupCodes)
	q.Set("employmentTypeCodes", c.cfg.EmploymentTypeCodes)
	u := c.cfg.BaseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &fetch.FetchError{Vendor: vendor, Err: err}
	}
	req.Header.Set("User-Agent", util.UserAgent)
	req.Header.Set("Accept", "application/json")

	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, u); err != nil {
			return nil, &fetch.FetchError{Vendor: vendor, Err: err}
		}
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, &fetch.FetchError{Vendor: vendor, Err: fmt.Errorf("get recruits: %w", err)}
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fetch.Errf(vendor, "recruits status %d", res.StatusCode)
	}

	var rr recruitsResponse
	if err := json.NewDecoder(res.Body).Decode(&rr); err != nil {
		return nil, &fetch.FetchError{Vendor: vendor, Err: fmt.Errorf("decode recruits: %w", err)}
	}
	if rr.Code.String() != "2000" {
		return nil, fetch.Errf(vendor, "api result code %s: %s", rr.Code, rr.Message)
	}

	log.Printf("[baemin] vendor reports %d postings", rr.Data.TotalSize)

	now := time.Now()
	out := make([]domain.Posting, 0, len(rr.Data.List))
	for _, r := range rr.Data.List {
		id := r.RecruitNumber.String()
		out = append(out, domain.Posting{
			ID:             id,
			Title:          r.RecruitName,
			Company:        companyName,
			Category:       categoryName,
			EmploymentType: employmentName,
			OpensOn:        domain.OpenDate(r.RecruitOpenDate, domain.LayoutDay),
			ClosesOn:       domain.CloseDate(r.RecruitEndDate, domain.LayoutDay),
			URL:            detailURL(id),
			CollectedAt:    now,
		})
	}

	if c.hydrator != nil {
		for i := range out {
			_ = c.hydrator.Hydrate(ctx, &out[i])
		}
	}

	log.Printf("[baemin] fetched %d postings", len(out))
	return out, nil
}

func detailURL(id string) string {
	if id == "" {
		return ""
	}
	return fmt.Sprintf("https://career.woowahan.com/recruitment/%s/detail", id)
}

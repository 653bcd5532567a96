package kakao

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"careersync-engine/internal/domain"
	"careersync-engine/internal/fetch"
	"careersync-engine/internal/fetch/util"
)

const vendor = "kakao"

type Config struct {
	BaseURL      string // override for tests; defaults to the public API
	Part         string // job category filter, e.g. BUSINESS_SERVICES
	EmployeeType string // "0" = full-time
	Company      string // ALL, KAKAO, ...
	MaxPages     int    // guard against a runaway totalPage
}

type Client struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(cfg Config, limiter *util.HostLimiter) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://careers.kakao.com/public/api/job-list"
	}
	if cfg.Part == "" {
		cfg.Part = "BUSINESS_SERVICES"
	}
	if cfg.EmployeeType == "" {
		cfg.EmployeeType = "0"
	}
	if cfg.Company == "" {
		cfg.Company = "ALL"
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 200
	}
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
	}
}

func (c *Client) Name() string { return vendor }

type jobListResponse struct {
	JobList   []jobOffer `json:"jobList"`
	TotalPage int        `json:"totalPage"`
}

type jobOffer struct {
	RealID           fetch.FlexID `json:"realId"`
	JobOfferTitle    string       `json:"jobOfferTitle"`
	CompanyName      string       `json:"companyName"`
	LocationName     string       `json:"locationName"`
	EmployeeTypeName string       `json:"employeeTypeName"`
	RegDate          string       `json:"regDate"`
	EndDate          string       `json:"endDate"`
}

// Fetch drains every page of the job list. The API reports totalPage on
// each response; the first page is page 1.
func (c *Client) Fetch(ctx context.Context) ([]domain.Posting, error) {
	now := time.Now()
	var out []domain.Posting

	for page := 1; ; page++ {
		jr, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}

		for _, j := range jr.JobList {
			out = append(out, domain.Posting{
				ID:             j.RealID.String(),
				Title:          j.JobOfferTitle,
				Company:        j.CompanyName,
				Location:       j.LocationName,
				EmploymentType: j.EmployeeTypeName,
				OpensOn:        domain.OpenDate(j.RegDate, domain.LayoutISO),
				ClosesOn:       domain.CloseDate(j.EndDate, domain.LayoutISO),
				URL:            jobURL(j.RealID.String()),
				CollectedAt:    now,
			})
		}

		totalPage := jr.TotalPage
		if totalPage <= 0 {
			totalPage = 1
		}
		log.Printf("[kakao] page %d/%d collected (%d postings)", page, totalPage, len(jr.JobList))

		if page >= totalPage || page >= c.cfg.MaxPages {
			break
		}
	}

	log.Printf("[kakao] fetched %d postings", len(out))
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) (*jobListResponse, error) {
	q := url.Values{}
	q.Set("part", c.cfg.Part)
	q.Set("employeeType", c.cfg.EmployeeType)
	q.Set("company", c.cfg.Company)
	q.Set("page", strconv.Itoa(page))
	u := c.cfg.BaseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &fetch.FetchError{Vendor: vendor, Err: err}
	}

	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, u); err != nil {
			return nil, &fetch.FetchError{Vendor: vendor, Err: err}
		}
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, &fetch.FetchError{Vendor: vendor, Err: fmt.Errorf("get job list: %w", err)}
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fetch.Errf(vendor, "job list status %d", res.StatusCode)
	}

	var jr jobListResponse
	if err := json.NewDecoder(res.Body).Decode(&jr); err != nil {
		return nil, &fetch.FetchError{Vendor: vendor, Err: fmt.Errorf("decode job list: %w", err)}
	}
	return &jr, nil
}

func jobURL(id string) string {
	if id == "" {
		return ""
	}
	return "https://careers.kakao.com/jobs/" + id
}

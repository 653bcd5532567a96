package naver

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

const vendor = "naver"

const (
	// Service & Business sub-job codes.
	defaultSubJobCodes  = "3010001,3020001,3030001,3040001,3060001,3070001"
	defaultEmpTypeCodes = "0010" // full-time
	defaultPageSize     = 10
)

type Config struct {
	BaseURL      string
	SubJobCodes  string
	EmpTypeCodes string
	PageSize     int
	MaxPostings  int // drain guard when totalSize misbehaves
}

type Client struct {
	cfg      Config
	hc       *http.Client
	limiter  *util.HostLimiter
	hydrator *util.LocationHydrator
}

func New(cfg Config, limiter *util.HostLimiter, hydrator *util.LocationHydrator) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://recruit.navercorp.com/rcrt/loadJobList.do"
	}
	if cfg.SubJobCodes == "" {
		cfg.SubJobCodes = defaultSubJobCodes
	}
	if cfg.EmpTypeCodes == "" {
		cfg.EmpTypeCodes = defaultEmpTypeCodes
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.MaxPostings <= 0 {
		cfg.MaxPostings = 5000
	}
	return &Client{
		cfg:      cfg,
		hc:       &http.Client{Timeout: 30 * time.Second},
		limiter:  limiter,
		hydrator: hydrator,
	}
}

func (c *Client) Name() string { return vendor }

type jobListResponse struct {
	Result    string `json:"result"`
	List      []anno `json:"list"`
	TotalSize int    `json:"totalSize"`
}

type anno struct {
	AnnoID         fetch.FlexID `json:"annoId"`
	AnnoSubject    string       `json:"annoSubject"`
	SysCompanyCdNm string       `json:"sysCompanyCdNm"`
	SubJobCdNm     string       `json:"subJobCdNm"`
	EmpTypeCdNm    string       `json:"empTypeCdNm"`
	StaYmd         string       `json:"staYmd"`
	EndYmd         string       `json:"endYmd"`
}

// Fetch drains the list with an index offset: firstIndex advances by the
// page size until the collected count reaches the reported totalSize.
func (c *Client) Fetch(ctx context.Context) ([]domain.Posting, error) {
	now := time.Now()
	var out []domain.Posting

	for firstIndex := 0; ; firstIndex += c.cfg.PageSize {
		jr, err := c.fetchPage(ctx, firstIndex)
		if err != nil {
			return nil, err
		}

		for _, a := range jr.List {
			id := a.AnnoID.String()
			out = append(out, domain.Posting{
				ID:             id,
				Title:          a.AnnoSubject,
				Company:        a.SysCompanyCdNm,
				Category:       a.SubJobCdNm,
				EmploymentType: a.EmpTypeCdNm,
				OpensOn:        domain.OpenDate(a.StaYmd, domain.LayoutCompact),
				ClosesOn:       domain.CloseDate(a.EndYmd, domain.LayoutCompact),
				URL:            viewURL(id),
				CollectedAt:    now,
			})
		}

		log.Printf("[naver] collected %d/%d postings", len(out), jr.TotalSize)

		if len(jr.List) == 0 || len(out) >= jr.TotalSize || len(out) >= c.cfg.MaxPostings {
			break
		}
	}

	if c.hydrator != nil {
		for i := range out {
			_ = c.hydrator.Hydrate(ctx, &out[i])
		}
	}

	log.Printf("[naver] fetched %d postings", len(out))
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, firstIndex int) (*jobListResponse, error) {
	q := url.Values{}
	q.Set("subJobCdArr", c.cfg.SubJobCodes)
	q.Set("empTypeCdArr", c.cfg.EmpTypeCodes)
	q.Set("firstIndex", strconv.Itoa(firstIndex))
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
	if jr.Result != "Y" {
		return nil, fetch.Errf(vendor, "api result %q", jr.Result)
	}
	return &jr, nil
}

func viewURL(id string) string {
	if id == "" {
		return ""
	}
	return "https://recruit.navercorp.com/rcrt/view.do?annoId=" + id + "&lang=ko"
}

package baemin

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careersync-engine/internal/domain"
	"careersync-engine/internal/fetch"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "BA005010", q.Get("jobGroupCodes"))
		assert.Equal(t, "BA002001", q.Get("employmentTypeCodes"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
		  "code": 2000,
		  "message": "OK",
		  "data": {
		    "totalSize": 2,
		    "list": [
		      {"recruitNumber": 12345, "recruitName": "Sales Lead",
		       "recruitOpenDate": "2024-03-01 10:00:00", "recruitEndDate": "2024-05-31 23:59:59"},
		      {"recruitNumber": "12346", "recruitName": "Account Executive",
		       "recruitOpenDate": "2024-03-02 10:00:00", "recruitEndDate": "9999-12-31 00:00:00"}
		    ]
		  }
		}`)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, nil, nil)
	postings, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, postings, 2)

	assert.Equal(t, "12345", postings[0].ID)
	assert.Equal(t, "Sales Lead", postings[0].Title)
	assert.Equal(t, "Woowa Brothers", postings[0].Company)
	assert.Equal(t, "Business & Sales", postings[0].Category)
	assert.Equal(t, "Full-time", postings[0].EmploymentType)
	assert.Equal(t, "2024-03-01", postings[0].OpensOn.String())
	assert.Equal(t, "2024-05-31", postings[0].ClosesOn.String())
	assert.Equal(t, "https://career.woowahan.com/recruitment/12345/detail", postings[0].URL)

	assert.Equal(t, domain.OpenEnded, postings[1].ClosesOn.String())
}

func TestFetchRejectedResultCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code": "4000", "message": "invalid scope", "data": {"list": []}}`)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, nil, nil)
	_, err := c.Fetch(context.Background())
	require.Error(t, err)

	var fe *fetch.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "baemin", fe.Vendor)
	assert.Contains(t, err.Error(), "4000")
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, nil, nil)
	_, err := c.Fetch(context.Background())

	var fe *fetch.FetchError
	require.ErrorAs(t, err, &fe)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed talks to the NCBI E-utilities API: rate-limited esearch
// and efetch calls plus normalization of the returned bibliographic records.
// Implements: prd003-fetch (R1-R5);
//
//	docs/ARCHITECTURE § PubMed Access.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/evidence-engine/internal/httputil"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// eutilsAPIBase is the E-utilities endpoint root. Declared as a var so
// tests can substitute an httptest server.
var eutilsAPIBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// articleURLBase is the public article page prefix used for Reference URLs.
const articleURLBase = "https://pubmed.ncbi.nlm.nih.gov/"

const defaultMaxResults = 10

// DefaultMinInterval keeps the engine under NCBI's published allowance of
// about three requests per second without an API key.
const DefaultMinInterval = 350 * time.Millisecond

// Client issues esearch and efetch calls. One Client must be shared by all
// callers in the process: its limiter is the single serialization point
// that spaces consecutive outbound calls by the configured minimum
// interval, whichever goroutine issues them (R5.1).
type Client struct {
	HTTP    *http.Client
	cfg     types.PubMedConfig
	limiter *rate.Limiter
}

// NewClient builds a Client from cfg, filling defaults for the result cap
// and the request interval.
func NewClient(httpClient *http.Client, cfg types.PubMedConfig) *Client {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.MinRequestInterval <= 0 {
		cfg.MinRequestInterval = DefaultMinInterval
	}
	return &Client{
		HTTP:    httpClient,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.MinRequestInterval), 1),
	}
}

// Search runs an esearch query and returns up to the configured cap of
// PMIDs in the service's own relevance order (R1.1-R1.3).
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmax":  {fmt.Sprintf("%d", c.cfg.MaxResults)},
		"retmode": {"json"},
		"sort":    {"relevance"},
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}

	body, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("PubMed search failed: %w", err)
	}
	defer body.Close()

	var sr esearchResponse
	if err := json.NewDecoder(body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	return sr.Result.IDList, nil
}

// FetchDetails runs an efetch for the given PMIDs and returns the parsed
// article records. An empty id list returns immediately without a network
// call (R2.2).
func (c *Client) FetchDetails(ctx context.Context, pmids []string) ([]Article, error) {
	if len(pmids) == 0 {
		return nil, nil
	}

	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"retmode": {"xml"},
		"rettype": {"abstract"},
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}

	body, err := c.get(ctx, "efetch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("PubMed fetch failed: %w", err)
	}
	defer body.Close()

	articles, err := ParseArticleSet(body)
	if err != nil {
		return nil, fmt.Errorf("PubMed fetch failed: %w", err)
	}
	return articles, nil
}

// get waits for the shared rate limiter, then issues one GET against an
// E-utilities endpoint. Non-200 statuses are errors.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := eutilsAPIBase + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("E-utilities request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("E-utilities returned HTTP %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// esearch JSON structures.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	IDList []string `json:"idlist"`
}

package kalshi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/oddsylabs/oddsy/internal/logging"
	"github.com/oddsylabs/oddsy/internal/markets"
	"github.com/oddsylabs/oddsy/internal/stats"
)

const (
	defaultBaseURL = "https://api.elections.kalshi.com"
	marketsPath    = "/trade-api/v2/markets"
	tradesPath     = "/trade-api/v2/markets/trades"

	tradeWindow = 7 * 24 * time.Hour
)

// Client talks to the Kalshi Trade API. All endpoints require signed
// requests, so a Signer is mandatory.
type Client struct {
	baseURL    string
	status     string
	httpClient *http.Client
	signer     *Signer
	maxPages   int
	pageLimit  int
}

// Config provides credentials and optional overrides.
type Config struct {
	BaseURL        string
	APIKeyID       string
	PrivateKeyPEM  string
	PrivateKeyPath string
	Status         string // market status filter; empty defaults to "open"
	Timeout        time.Duration
	MaxPages       int
	PageLimit      int
}

// NewClient builds a configured Kalshi client. Credential problems surface
// here, before any fetch is attempted.
func NewClient(cfg Config) (*Client, error) {
	signer, err := NewSigner(cfg.APIKeyID, cfg.PrivateKeyPEM, cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	status := cfg.Status
	if status == "" {
		status = "open"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 5
	}
	pageLimit := cfg.PageLimit
	if pageLimit <= 0 {
		pageLimit = 500
	}

	return &Client{
		baseURL: base,
		status:  status,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		signer:    signer,
		maxPages:  maxPages,
		pageLimit: pageLimit,
	}, nil
}

func (c *Client) Name() string {
	return "kalshi"
}

func (c *Client) Platform() markets.Platform {
	return markets.PlatformKalshi
}

// FetchRows fetches the full market listing and normalizes it into display
// rows. Page-level failures degrade to a partial listing rather than an
// error; an empty result is "no data", not a failure.
func (c *Client) FetchRows(ctx context.Context) ([]markets.DisplayRow, error) {
	raw := c.fetchMarkets(ctx)
	return BuildDisplayRows(raw), nil
}

// FetchStats derives the headline numbers. Trade-level data from the last
// seven days wins over the volume proxy whenever the trades fetch yields
// anything at all.
func (c *Client) FetchStats(ctx context.Context, rows []markets.DisplayRow) (markets.ExchangeStats, error) {
	trades := c.fetchTradesLastWeek(ctx)
	return stats.Compute(string(markets.PlatformKalshi), rows, len(rows), nil, trades), nil
}

// fetchMarkets walks the cursor-paginated markets listing up to the page
// ceiling, keeping whatever pages succeeded.
func (c *Client) fetchMarkets(ctx context.Context) []Market {
	var all []Market
	cursor := ""

	for page := 1; page <= c.maxPages; page++ {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(c.pageLimit))
		if c.status != "" {
			q.Set("status", c.status)
		}
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var resp marketsResponse
		if err := c.get(ctx, marketsPath, q, &resp); err != nil {
			logging.Errorf("[kalshi] markets page %d failed, keeping %d markets: %v", page, len(all), err)
			return all
		}
		if len(resp.Markets) == 0 {
			break
		}

		all = append(all, resp.Markets...)
		cursor = resp.Cursor
		if cursor == "" {
			break
		}
	}

	return all
}

// fetchTradesLastWeek pages through trades inside a min_ts/max_ts window.
// A mid-walk failure keeps the accumulated trades; stats fall back to the
// volume proxy only when nothing at all was fetched.
func (c *Client) fetchTradesLastWeek(ctx context.Context) []markets.Trade {
	now := time.Now().UTC()
	since := now.Add(-tradeWindow)

	var all []markets.Trade
	cursor := ""

	for page := 1; page <= c.maxPages; page++ {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(c.pageLimit))
		q.Set("min_ts", strconv.FormatInt(since.Unix(), 10))
		q.Set("max_ts", strconv.FormatInt(now.Unix(), 10))
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var resp tradesResponse
		if err := c.get(ctx, tradesPath, q, &resp); err != nil {
			logging.Errorf("[kalshi] trades page %d failed, keeping %d trades: %v", page, len(all), err)
			return all
		}

		for _, t := range resp.Trades {
			all = append(all, t.normalize())
		}

		cursor = resp.Cursor
		if cursor == "" {
			break
		}
	}

	return all
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	full := path
	if enc := query.Encode(); enc != "" {
		full = path + "?" + enc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+full, nil)
	if err != nil {
		return err
	}
	headers, err := c.signer.Headers(http.MethodGet, path)
	if err != nil {
		return err
	}
	req.Header = headers

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("kalshi API %s: %s", resp.Status, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

type marketsResponse struct {
	Markets []Market `json:"markets"`
	Cursor  string   `json:"cursor"`
}

// Market is the raw Kalshi market record. Price fields are dollar fractions
// in [0,1]; pointers keep "absent" distinguishable from an actual zero.
type Market struct {
	Ticker           string   `json:"ticker"`
	EventTicker      string   `json:"event_ticker"`
	MarketType       string   `json:"market_type"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle"`
	YesSubTitle      string   `json:"yes_sub_title"`
	Category         string   `json:"category"`
	Status           string   `json:"status"`
	CloseTime        string   `json:"close_time"`
	YesBidDollars    *float64 `json:"yes_bid_dollars"`
	YesAskDollars    *float64 `json:"yes_ask_dollars"`
	NoBidDollars     *float64 `json:"no_bid_dollars"`
	NoAskDollars     *float64 `json:"no_ask_dollars"`
	LastPriceDollars *float64 `json:"last_price_dollars"`
	Volume           *float64 `json:"volume"`
	Volume24h        *float64 `json:"volume_24h"`
	OpenInterest     *float64 `json:"open_interest"`
}

type tradesResponse struct {
	Trades []trade `json:"trades"`
	Cursor string  `json:"cursor"`
}

type trade struct {
	TradeID         string   `json:"trade_id"`
	Ticker          string   `json:"ticker"`
	Price           *float64 `json:"price"` // cents
	YesPriceDollars *float64 `json:"yes_price_dollars"`
	Count           *float64 `json:"count"`
	CreatedTime     string   `json:"created_time"`
}

// normalize converts the venue-native cent price into dollars. A trade with
// no usable price contributes zero notional but still counts.
func (t trade) normalize() markets.Trade {
	out := markets.Trade{}
	if t.Price != nil {
		out.Price = *t.Price / 100
	} else if t.YesPriceDollars != nil {
		out.Price = *t.YesPriceDollars
	}
	if t.Count != nil {
		out.Size = *t.Count
	}
	if ts, err := time.Parse(time.RFC3339, t.CreatedTime); err == nil {
		out.Timestamp = ts
	}
	return out
}

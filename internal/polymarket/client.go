package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oddsylabs/oddsy/internal/cache"
	"github.com/oddsylabs/oddsy/internal/logging"
	"github.com/oddsylabs/oddsy/internal/markets"
	"github.com/oddsylabs/oddsy/internal/stats"
)

const (
	defaultGammaURL   = "https://gamma-api.polymarket.com"
	defaultClobURL    = "https://clob.polymarket.com"
	defaultDataAPIURL = "https://data-api.polymarket.com"

	tradeWindow = 7 * 24 * time.Hour
)

// Client fetches Polymarket data from its three public surfaces: Gamma for
// market metadata, the CLOB for order books, and the Data-API for trades and
// open interest. None of them require authentication.
type Client struct {
	gammaURL   string
	clobURL    string
	dataAPIURL string
	httpClient *http.Client
	books      cache.BookCache // optional
	maxPages   int
	pageLimit  int
	tradePages int
}

// Config controls optional overrides for the client.
type Config struct {
	GammaURL   string
	ClobURL    string
	DataAPIURL string
	Timeout    time.Duration
	MaxPages   int
	PageLimit  int
	TradePages int // trades walk deeper than markets; separate cap
	Books      cache.BookCache
}

// NewClient builds a Polymarket client with sane defaults.
func NewClient(cfg Config) *Client {
	gamma := cfg.GammaURL
	if gamma == "" {
		gamma = defaultGammaURL
	}
	clob := cfg.ClobURL
	if clob == "" {
		clob = defaultClobURL
	}
	dataAPI := cfg.DataAPIURL
	if dataAPI == "" {
		dataAPI = defaultDataAPIURL
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
		pageLimit = 200
	}
	tradePages := cfg.TradePages
	if tradePages <= 0 {
		tradePages = 50
	}

	return &Client{
		gammaURL:   gamma,
		clobURL:    clob,
		dataAPIURL: dataAPI,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		books:      cfg.Books,
		maxPages:   maxPages,
		pageLimit:  pageLimit,
		tradePages: tradePages,
	}
}

func (c *Client) Name() string {
	return "polymarket"
}

func (c *Client) Platform() markets.Platform {
	return markets.PlatformPolymarket
}

// FetchRows fetches active Gamma markets, prices their outcomes from CLOB
// books, and explodes each market into one row per outcome.
func (c *Client) FetchRows(ctx context.Context) ([]markets.DisplayRow, error) {
	gamma := c.fetchGammaMarkets(ctx)
	if len(gamma) == 0 {
		return nil, nil
	}

	tokenIDs := collectTokenIDs(gamma)
	books := c.fetchBooks(ctx, tokenIDs)

	return BuildDisplayRows(gamma, books), nil
}

// FetchStats prefers Data-API trades for the weekly numbers and the
// dedicated open-interest endpoint over summing rows. Active markets is the
// number of distinct grouped markets, not exploded outcome rows.
func (c *Client) FetchStats(ctx context.Context, rows []markets.DisplayRow) (markets.ExchangeStats, error) {
	trades := c.fetchTradesLastWeek(ctx)
	oi := c.fetchOpenInterest(ctx)

	seen := make(map[string]struct{})
	for _, r := range rows {
		seen[r.EventTicker] = struct{}{}
	}

	return stats.Compute(string(markets.PlatformPolymarket), rows, len(seen), oi, trades), nil
}

// fetchGammaMarkets walks the offset-paginated listing of active, unclosed
// markets up to the page ceiling.
func (c *Client) fetchGammaMarkets(ctx context.Context) []GammaMarket {
	var all []GammaMarket
	offset := 0

	for page := 1; page <= c.maxPages; page++ {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(c.pageLimit))
		q.Set("offset", strconv.Itoa(offset))
		q.Set("closed", "false")
		q.Set("active", "true")

		var batch []GammaMarket
		if err := c.getJSON(ctx, c.gammaURL+"/markets?"+q.Encode(), &batch); err != nil {
			logging.Errorf("[polymarket] gamma page %d failed, keeping %d markets: %v", page, len(all), err)
			return all
		}
		if len(batch) == 0 {
			break
		}

		all = append(all, batch...)
		offset += c.pageLimit
	}

	return all
}

// fetchTradesLastWeek pages the Data-API trade feed, newest first. The feed
// has no timestamp filter, so the walk stops once a page's oldest trade
// falls before the window cutoff.
func (c *Client) fetchTradesLastWeek(ctx context.Context) []markets.Trade {
	cutoff := time.Now().UTC().Add(-tradeWindow)

	var all []markets.Trade
	offset := 0

	for page := 1; page <= c.tradePages; page++ {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(c.pageLimit))
		q.Set("offset", strconv.Itoa(offset))

		var batch []dataTrade
		if err := c.getJSON(ctx, c.dataAPIURL+"/trades?"+q.Encode(), &batch); err != nil {
			logging.Errorf("[polymarket] trades page %d failed, keeping %d trades: %v", page, len(all), err)
			return all
		}
		if len(batch) == 0 {
			break
		}

		oldestBeforeCutoff := false
		for _, t := range batch {
			ts, ok := t.Timestamp.Time()
			if !ok {
				// An unparseable timestamp drops the trade, not the walk.
				continue
			}
			if ts.Before(cutoff) {
				oldestBeforeCutoff = true
				continue
			}
			all = append(all, t.normalize(ts))
		}
		if oldestBeforeCutoff {
			break
		}

		offset += c.pageLimit
	}

	return all
}

// fetchOpenInterest reads the Data-API aggregate endpoint. A dedicated
// global row wins; otherwise per-market entries are summed. Nil means the
// endpoint was unusable and the caller should fall back to row-level data.
func (c *Client) fetchOpenInterest(ctx context.Context) *float64 {
	var entries []oiEntry
	if err := c.getJSON(ctx, c.dataAPIURL+"/oi", &entries); err != nil {
		logging.Errorf("[polymarket] open interest fetch failed: %v", err)
		return nil
	}
	if len(entries) == 0 {
		return nil
	}

	var total float64
	for _, e := range entries {
		if e.Value == nil {
			continue
		}
		if e.Market == "" || strings.EqualFold(e.Market, "global") {
			v := *e.Value
			return &v
		}
		total += *e.Value
	}
	return &total
}

func (c *Client) getJSON(ctx context.Context, fullURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}
	return c.do(req, dst)
}

func (c *Client) do(req *http.Request, dst any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("polymarket API %s: %s", resp.Status, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func collectTokenIDs(gamma []GammaMarket) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, m := range gamma {
		for _, id := range m.ClobTokenIDs {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// GammaMarket is a raw Gamma market record. Outcomes, prices, and token IDs
// are parallel arrays that Gamma usually serializes as JSON-array strings.
type GammaMarket struct {
	Question       string   `json:"question"`
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	Category       string   `json:"category"`
	ConditionID    string   `json:"conditionId"`
	Closed         bool     `json:"closed"`
	EndDateISO     string   `json:"endDateIso"`
	EndDate        string   `json:"endDate"`
	Volume24hClob  *float64 `json:"volume24hrClob"`
	Volume24h      *float64 `json:"volume24hr"`
	VolumeNum      *float64 `json:"volumeNum"`
	Outcomes       Listish  `json:"outcomes"`
	OutcomePrices  Listish  `json:"outcomePrices"`
	ClobTokenIDs   Listish  `json:"clobTokenIds"`
}

type dataTrade struct {
	Timestamp looseUnix `json:"timestamp"`
	Price     *float64  `json:"price"`
	Size      *float64  `json:"size"`
}

// looseUnix is a unix-seconds timestamp tolerating the shapes the trade feed
// serves: a number, a numeric string, null, or garbage. A value that cannot
// be parsed is unknown, never a decode error; one bad trade must not take
// down its whole page.
type looseUnix struct {
	secs  int64
	known bool
}

func (u *looseUnix) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		u.secs = secs
		u.known = true
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		u.secs = int64(f)
		u.known = true
	}
	return nil
}

// Time reports the parsed timestamp and whether one was present.
func (u looseUnix) Time() (time.Time, bool) {
	if !u.known {
		return time.Time{}, false
	}
	return time.Unix(u.secs, 0).UTC(), true
}

// normalize maps a Data-API trade onto the common trade shape. Prices are
// already dollars per share.
func (t dataTrade) normalize(ts time.Time) markets.Trade {
	out := markets.Trade{Timestamp: ts}
	if t.Price != nil {
		out.Price = *t.Price
	}
	if t.Size != nil {
		out.Size = *t.Size
	}
	return out
}

type oiEntry struct {
	Market string   `json:"market"`
	Value  *float64 `json:"value"`
}

package polymarket

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/oddsylabs/oddsy/internal/cache"
	"github.com/oddsylabs/oddsy/internal/logging"
)

// The CLOB books endpoint rejects oversized batches; stay under its limit.
const booksChunkSize = 75

// BookSummary is the top-of-book view for one CLOB token, as price fractions
// in 0..1. Nil means that side of the book was empty.
type BookSummary struct {
	BestBid *float64
	BestAsk *float64
}

type bookRequest struct {
	TokenID string `json:"token_id"`
}

type bookResponse struct {
	AssetID string      `json:"asset_id"`
	Bids    []bookLevel `json:"bids"`
	Asks    []bookLevel `json:"asks"`
}

type bookLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// fetchBooks resolves best bid/ask for each token, consulting the cache first
// and batching the rest against POST /books. Failed chunks are skipped; rows
// for their tokens fall back to Gamma's outcome prices.
func (c *Client) fetchBooks(ctx context.Context, tokenIDs []string) map[string]BookSummary {
	out := make(map[string]BookSummary, len(tokenIDs))

	var missing []string
	for _, id := range tokenIDs {
		if rec := c.cachedBook(ctx, id); rec != nil {
			out[id] = BookSummary{BestBid: rec.BestBid, BestAsk: rec.BestAsk}
			continue
		}
		missing = append(missing, id)
	}

	for start := 0; start < len(missing); start += booksChunkSize {
		end := start + booksChunkSize
		if end > len(missing) {
			end = len(missing)
		}
		chunk := missing[start:end]

		books, err := c.postBooks(ctx, chunk)
		if err != nil {
			logging.Errorf("[polymarket] books chunk of %d failed: %v", len(chunk), err)
			continue
		}
		for id, summary := range books {
			out[id] = summary
			c.storeBook(ctx, id, summary)
		}
	}

	return out
}

func (c *Client) postBooks(ctx context.Context, tokenIDs []string) (map[string]BookSummary, error) {
	payload := make([]bookRequest, 0, len(tokenIDs))
	for _, id := range tokenIDs {
		payload = append(payload, bookRequest{TokenID: id})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.clobURL+"/books", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var books []bookResponse
	if err := c.do(req, &books); err != nil {
		return nil, err
	}

	out := make(map[string]BookSummary, len(books))
	for _, b := range books {
		if b.AssetID == "" {
			continue
		}
		out[b.AssetID] = summarize(b)
	}
	return out, nil
}

// summarize picks the best level from each side. The CLOB sorts bids
// ascending and asks descending, so the best price sits at the end.
func summarize(b bookResponse) BookSummary {
	var s BookSummary
	if len(b.Bids) > 0 {
		s.BestBid = parsePrice(b.Bids[len(b.Bids)-1].Price)
	}
	if len(b.Asks) > 0 {
		s.BestAsk = parsePrice(b.Asks[len(b.Asks)-1].Price)
	}
	return s
}

func parsePrice(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func (c *Client) cachedBook(ctx context.Context, tokenID string) *cache.BookRecord {
	if c.books == nil {
		return nil
	}
	rec, ok, err := c.books.Get(ctx, tokenID)
	if err != nil {
		logging.Debugf("[polymarket] book cache read for %s: %v", tokenID, err)
		return nil
	}
	if !ok {
		return nil
	}
	return rec
}

func (c *Client) storeBook(ctx context.Context, tokenID string, summary BookSummary) {
	if c.books == nil {
		return
	}
	rec := cache.BookRecord{
		BestBid:  summary.BestBid,
		BestAsk:  summary.BestAsk,
		CachedAt: time.Now().UTC(),
	}
	if err := c.books.Set(ctx, tokenID, rec); err != nil {
		logging.Debugf("[polymarket] book cache write for %s: %v", tokenID, err)
	}
}

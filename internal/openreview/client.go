package openreview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/owlview/reviewtree/internal/note/model"
)

const DefaultBaseURL = "https://api2.openreview.net"

const pageLimit = 1000

type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Strategy   retry.Strategy
}

func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Strategy:   retry.Strategy{Attempts: 3, Delay: 500 * time.Millisecond, Backoff: 2},
	}
}

// ListNotes fetches every note of a forum, paging until the API runs
// dry, and adapts each record to the canonical model.
func (c *Client) ListNotes(ctx context.Context, forum string) ([]model.Note, error) {
	var all []model.Note

	offset := 0
	for {
		page, err := c.fetchPage(ctx, forum, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageLimit {
			break
		}
		offset += len(page)
	}

	zlog.Logger.Debug().
		Str("forum", forum).
		Int("notes", len(all)).
		Msg("fetched forum notes")

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, forum string, offset int) ([]model.Note, error) {
	endpoint := fmt.Sprintf("%s/notes?forum=%s&details=directReplies&offset=%d&limit=%d",
		c.BaseURL, url.QueryEscape(forum), offset, pageLimit)

	var decoded notesResponse
	err := retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		if c.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.Token)
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("notes request: unexpected status %d", resp.StatusCode)
		}

		decoded = notesResponse{}
		return json.NewDecoder(resp.Body).Decode(&decoded)
	}, c.Strategy)
	if err != nil {
		return nil, fmt.Errorf("fetch notes forum=%s offset=%d: %w", forum, offset, err)
	}

	notes := make([]model.Note, 0, len(decoded.Notes))
	for _, a := range decoded.Notes {
		notes = append(notes, a.toModel())
	}
	return notes, nil
}

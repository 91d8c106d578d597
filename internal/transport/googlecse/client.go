// Package googlecse adapts Google Custom Search to the web research
// contract.
package googlecse

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/qamqor-cloud/sponsorscope/internal/domain/research"
)

// Config holds provider credentials and limits.
type Config struct {
	APIKey     string
	EngineID   string
	MaxResults int
}

// Client calls the Custom Search JSON API.
type Client struct {
	svc        *customsearch.Service
	engineID   string
	maxResults int64
}

// New creates a Custom Search client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" || cfg.EngineID == "" {
		return nil, fmt.Errorf("api key and engine id are required")
	}
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create customsearch service: %w", err)
	}
	max := int64(cfg.MaxResults)
	if max <= 0 {
		max = 5
	}
	return &Client{svc: svc, engineID: cfg.EngineID, maxResults: max}, nil
}

// Search runs one query and returns the raw hits. Results are
// requested in Russian, Kazakh, or English: companies here publish in
// any of the three.
func (c *Client) Search(ctx context.Context, query string) ([]research.Hit, error) {
	resp, err := c.svc.Cse.List().
		Cx(c.engineID).
		Q(query).
		Num(c.maxResults).
		Hl("ru").
		Lr("lang_ru|lang_kk|lang_en").
		Fields(googleapi.Field("items(title,link,snippet,displayLink)")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("customsearch: %w", err)
	}

	hits := make([]research.Hit, 0, len(resp.Items))
	for _, item := range resp.Items {
		hits = append(hits, research.Hit{
			Title:       item.Title,
			Link:        item.Link,
			Snippet:     item.Snippet,
			DisplayLink: item.DisplayLink,
		})
	}
	return hits, nil
}

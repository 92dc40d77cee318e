package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"chat_agent/src/model"

	"github.com/bytedance/sonic"
)

// Client is the web search collaborator boundary: query string in, ordered
// result records out. Invoked only for the "other" intent category.
type Client interface {
	Search(ctx context.Context, query string) ([]model.SearchResult, error)
}

// DuckDuckGoClient queries the DuckDuckGo Instant Answer API. No API key
// required.
type DuckDuckGoClient struct {
	baseURL    string
	maxResults int
	client     *http.Client
}

func NewDuckDuckGoClient(config model.SearchConfig) *DuckDuckGoClient {
	return &DuckDuckGoClient{
		baseURL:    config.BaseURL,
		maxResults: config.MaxResults,
		client: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}
}

type relatedTopic struct {
	Text     string         `json:"Text"`
	FirstURL string         `json:"FirstURL"`
	Topics   []relatedTopic `json:"Topics"`
}

type instantAnswer struct {
	Heading       string         `json:"Heading"`
	AbstractText  string         `json:"AbstractText"`
	AbstractURL   string         `json:"AbstractURL"`
	RelatedTopics []relatedTopic `json:"RelatedTopics"`
}

func (c *DuckDuckGoClient) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	searchURL, err := c.buildSearchURL(query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var answer instantAnswer
	if err := sonic.Unmarshal(body, &answer); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return c.collectResults(&answer), nil
}

func (c *DuckDuckGoClient) buildSearchURL(query string) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid search base URL: %w", err)
	}

	params := url.Values{}
	params.Add("q", query)
	params.Add("format", "json")
	params.Add("no_html", "1")
	params.Add("no_redirect", "1")
	base.RawQuery = params.Encode()
	return base.String(), nil
}

// collectResults flattens the instant answer into an ordered, deduped result
// list capped at maxResults. The abstract, when present, ranks first.
func (c *DuckDuckGoClient) collectResults(answer *instantAnswer) []model.SearchResult {
	seen := make(map[string]bool)
	results := []model.SearchResult{}

	add := func(title, link, snippet string) {
		if len(results) >= c.maxResults || link == "" || seen[link] {
			return
		}
		seen[link] = true
		results = append(results, model.SearchResult{Title: title, Link: link, Snippet: snippet})
	}

	if answer.AbstractText != "" {
		add(answer.Heading, answer.AbstractURL, answer.AbstractText)
	}

	var walk func(topics []relatedTopic)
	walk = func(topics []relatedTopic) {
		for _, topic := range topics {
			if len(topic.Topics) > 0 {
				walk(topic.Topics)
				continue
			}
			add(topic.Text, topic.FirstURL, topic.Text)
		}
	}
	walk(answer.RelatedTopics)

	return results
}

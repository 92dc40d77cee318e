package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"chat_agent/src/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string, maxResults int) *DuckDuckGoClient {
	return NewDuckDuckGoClient(model.SearchConfig{
		BaseURL:        serverURL,
		MaxResults:     maxResults,
		TimeoutSeconds: 5,
	})
}

func TestSearchMapsInstantAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "rooftop restaurants", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Write([]byte(`{
			"Heading": "Rooftop restaurant",
			"AbstractText": "A restaurant on a roof.",
			"AbstractURL": "https://example.org/rooftop",
			"RelatedTopics": [
				{"Text": "Skyline dining", "FirstURL": "https://example.org/skyline"},
				{"Topics": [
					{"Text": "Terrace bars", "FirstURL": "https://example.org/terrace"}
				]}
			]
		}`))
	}))
	defer server.Close()

	results, err := newTestClient(server.URL, 5).Search(context.Background(), "rooftop restaurants")
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Abstract ranks first, then topics in document order with nested groups flattened.
	assert.Equal(t, model.SearchResult{Title: "Rooftop restaurant", Link: "https://example.org/rooftop", Snippet: "A restaurant on a roof."}, results[0])
	assert.Equal(t, "https://example.org/skyline", results[1].Link)
	assert.Equal(t, "Terrace bars", results[2].Title)
}

func TestSearchDedupesAndCaps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"RelatedTopics": [
				{"Text": "a", "FirstURL": "https://example.org/1"},
				{"Text": "dup", "FirstURL": "https://example.org/1"},
				{"Text": "b", "FirstURL": "https://example.org/2"},
				{"Text": "c", "FirstURL": "https://example.org/3"},
				{"Text": "no link", "FirstURL": ""}
			]
		}`))
	}))
	defer server.Close()

	results, err := newTestClient(server.URL, 2).Search(context.Background(), "anything")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "https://example.org/1", results[0].Link)
	assert.Equal(t, "https://example.org/2", results[1].Link)
}

func TestSearchEmptyAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	results, err := newTestClient(server.URL, 5).Search(context.Background(), "obscure query")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchNon200Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 5).Search(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSearchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 5).Search(context.Background(), "anything")
	require.Error(t, err)
}

package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-participation/internal/config"
	"github.com/sanosuguru/go-event-participation/internal/domain/event"
)

// fakeES はリクエストを記録する最小限のElasticsearch
type fakeES struct {
	mu          sync.Mutex
	indexExists bool
	requests    []string
	bodies      map[string]string
	searchResp  string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path
	f.requests = append(f.requests, key)
	f.bodies[key] = string(body)

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodHead:
		if !f.indexExists {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.URL.Path == "/events/_search":
		w.Write([]byte(f.searchResp))
	default:
		w.Write([]byte(`{"acknowledged":true,"result":"created"}`))
	}
}

func newFakeES(t *testing.T, indexExists bool) (*fakeES, config.ElasticsearchConfig) {
	t.Helper()
	f := &fakeES{indexExists: indexExists, bodies: map[string]string{}}
	server := httptest.NewServer(f)
	t.Cleanup(server.Close)
	return f, config.ElasticsearchConfig{Addresses: []string{server.URL}, Index: "events"}
}

func TestNewEventIndex(t *testing.T) {
	t.Run("インデックスがなければ作成する", func(t *testing.T) {
		f, cfg := newFakeES(t, false)
		_, err := NewEventIndex(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{"HEAD /events", "PUT /events"}, f.requests)
	})

	t.Run("既存インデックスはそのまま使う", func(t *testing.T) {
		f, cfg := newFakeES(t, true)
		_, err := NewEventIndex(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{"HEAD /events"}, f.requests)
	})
}

func TestEventIndex_IndexEvent(t *testing.T) {
	f, cfg := newFakeES(t, true)
	idx, err := NewEventIndex(context.Background(), cfg)
	require.NoError(t, err)

	err = idx.IndexEvent(context.Background(), &event.Event{
		ID:          "ev-1",
		Title:       "秋のジャズ演奏会",
		Annotation:  "ジャズの夕べ",
		Description: "生演奏を楽しむ",
		CategoryID:  "cat-1",
		EventDate:   time.Date(2026, 12, 1, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(f.bodies["PUT /events/_doc/ev-1"]), &doc))
	assert.Equal(t, "ev-1", doc["id"])
	assert.Equal(t, "ジャズの夕べ", doc["annotation"])
}

func TestEventIndex_SearchIDs(t *testing.T) {
	f, cfg := newFakeES(t, true)
	f.searchResp = `{"hits":{"hits":[{"_source":{"id":"ev-2"}},{"_source":{"id":"ev-1"}}]}}`
	idx, err := NewEventIndex(context.Background(), cfg)
	require.NoError(t, err)

	ids, err := idx.SearchIDs(context.Background(), "ジャズ", 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"ev-2", "ev-1"}, ids)
	assert.Contains(t, f.bodies["POST /events/_search"], "phrase_prefix")
}

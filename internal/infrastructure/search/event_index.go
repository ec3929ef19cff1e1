package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/sanosuguru/go-event-participation/internal/config"
	"github.com/sanosuguru/go-event-participation/internal/domain/event"
)

// EventIndex は公開イベントの全文検索インデックス
type EventIndex struct {
	client *elasticsearch.Client
	index  string
}

type eventDocument struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Annotation  string    `json:"annotation"`
	Description string    `json:"description"`
	CategoryID  string    `json:"category_id"`
	EventDate   time.Time `json:"event_date"`
}

var indexMapping = map[string]interface{}{
	"settings": map[string]interface{}{
		"number_of_shards":   1,
		"number_of_replicas": 0,
	},
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"id":          map[string]interface{}{"type": "keyword"},
			"title":       map[string]interface{}{"type": "text"},
			"annotation":  map[string]interface{}{"type": "text"},
			"description": map[string]interface{}{"type": "text"},
			"category_id": map[string]interface{}{"type": "keyword"},
			"event_date":  map[string]interface{}{"type": "date"},
		},
	},
}

// NewEventIndex はクライアントを作成し、インデックスがなければ作成する
func NewEventIndex(ctx context.Context, cfg config.ElasticsearchConfig) (*EventIndex, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     cfg.Addresses,
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    3,
	})
	if err != nil {
		return nil, fmt.Errorf("Elasticsearchクライアント作成に失敗: %w", err)
	}
	idx := &EventIndex{client: es, index: cfg.Index}
	if err := idx.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}

func (i *EventIndex) ensureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{i.index}}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("インデックス確認に失敗: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	body, err := json.Marshal(indexMapping)
	if err != nil {
		return fmt.Errorf("マッピングのエンコードに失敗: %w", err)
	}
	createRes, err := esapi.IndicesCreateRequest{Index: i.index, Body: bytes.NewReader(body)}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("インデックス作成に失敗: %w", err)
	}
	defer createRes.Body.Close()
	if createRes.IsError() {
		return fmt.Errorf("インデックス作成に失敗: %s", createRes.String())
	}
	return nil
}

// IndexEvent は公開イベントをインデックスに登録する
func (i *EventIndex) IndexEvent(ctx context.Context, e *event.Event) error {
	body, err := json.Marshal(eventDocument{
		ID:          e.ID,
		Title:       e.Title,
		Annotation:  e.Annotation,
		Description: e.Description,
		CategoryID:  e.CategoryID,
		EventDate:   e.EventDate,
	})
	if err != nil {
		return fmt.Errorf("ドキュメントのエンコードに失敗: %w", err)
	}
	res, err := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: e.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "wait_for",
	}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("インデックス登録に失敗: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("インデックス登録に失敗: %s", res.String())
	}
	return nil
}

// SearchIDs は概要と説明に text を含むイベントのIDを返す
func (i *EventIndex) SearchIDs(ctx context.Context, text string, limit int) ([]string, error) {
	query := map[string]interface{}{
		"_source": []string{"id"},
		"size":    limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  text,
				"type":   "phrase_prefix",
				"fields": []string{"annotation", "description"},
			},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("検索クエリのエンコードに失敗: %w", err)
	}
	res, err := esapi.SearchRequest{Index: []string{i.index}, Body: bytes.NewReader(body)}.Do(ctx, i.client)
	if err != nil {
		return nil, fmt.Errorf("検索に失敗: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("検索に失敗: %s", res.String())
	}

	var response struct {
		Hits struct {
			Hits []struct {
				Source struct {
					ID string `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("検索レスポンスのデコードに失敗: %w", err)
	}
	ids := make([]string, 0, len(response.Hits.Hits))
	for _, h := range response.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	return ids, nil
}

// HealthCheck はクラスタの状態を確認する
func (i *EventIndex) HealthCheck(ctx context.Context) error {
	res, err := esapi.ClusterHealthRequest{}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("Elasticsearchヘルスチェックに失敗: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("Elasticsearchヘルスチェックに失敗: %s", res.String())
	}
	return nil
}

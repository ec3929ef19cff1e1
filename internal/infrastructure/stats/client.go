package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sanosuguru/go-event-participation/internal/config"
	"github.com/sanosuguru/go-event-participation/internal/domain/stats"
)

// HTTPClient は統計サービスのHTTPクライアント
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

type hitRequest struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

type viewStatsResponse struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

func NewHTTPClient(cfg config.StatsConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Second
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SendHit はアクセスを POST /hit で記録する
func (c *HTTPClient) SendHit(ctx context.Context, hit stats.Hit) error {
	body, err := json.Marshal(hitRequest{
		App:       hit.App,
		URI:       hit.URI,
		IP:        hit.IP,
		Timestamp: hit.Timestamp.Format(stats.TimeLayout),
	})
	if err != nil {
		return fmt.Errorf("ヒットのエンコードに失敗: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("リクエスト作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ヒット送信に失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("統計サービスが予期しないステータスを返しました: %d", resp.StatusCode)
	}
	return nil
}

// GetStats は GET /stats で期間内の閲覧数を取得する
func (c *HTTPClient) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]stats.ViewStats, error) {
	q := url.Values{}
	q.Set("start", start.Format(stats.TimeLayout))
	q.Set("end", end.Format(stats.TimeLayout))
	q.Set("unique", strconv.FormatBool(unique))
	for _, u := range uris {
		q.Add("uris", u)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("リクエスト作成に失敗: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("統計取得に失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("統計サービスが予期しないステータスを返しました: %d", resp.StatusCode)
	}

	var body []viewStatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("統計レスポンスのデコードに失敗: %w", err)
	}
	result := make([]stats.ViewStats, len(body))
	for i, v := range body {
		result[i] = stats.ViewStats{App: v.App, URI: v.URI, Hits: v.Hits}
	}
	return result, nil
}

var _ stats.Client = (*HTTPClient)(nil)

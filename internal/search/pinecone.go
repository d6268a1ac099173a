package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/notepin/internal/model"
)

// IndexClient はPineconeインデックスのデータプレーンAPIクライアント。
// 事前に埋め込み済みのドキュメント群に対する最近傍検索を行う。
// 距離メトリクスと次元はインデックス作成時に決まっており、ここでは問い合わせのみ。
type IndexClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	host       string // インデックスのデータプレーンホスト（テスト用に差し替え可能）
	apiKey     string
}

// NewIndexClient はIndexClientを生成する。
func NewIndexClient(httpClient *http.Client, logger *slog.Logger, host, apiKey string) *IndexClient {
	return &IndexClient{
		httpClient: httpClient,
		logger:     logger,
		host:       strings.TrimRight(host, "/"),
		apiKey:     apiKey,
	}
}

// queryRequest はインデックス問い合わせのリクエストボディ。
type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

// queryResponse はインデックス問い合わせのレスポンスボディ。
type queryResponse struct {
	Matches []struct {
		ID       string         `json:"id"`
		Score    float64        `json:"score"`
		Metadata map[string]any `json:"metadata"`
	} `json:"matches"`
}

// Query はベクトルの上位topK件の最近傍をメタデータ付きで取得する。
// 結果はインデックスが返した順序のまま返す（ベスト・ファースト前提）。
func (c *IndexClient) Query(ctx context.Context, vector []float32, topK int) ([]model.SearchMatch, error) {
	payload, err := json.Marshal(queryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/query", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("vector index query failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("vector index query failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read query response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("vector index returned error status",
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, fmt.Errorf("vector index returned status %d: %s", resp.StatusCode, string(body))
	}

	var queryResp queryResponse
	if err := json.Unmarshal(body, &queryResp); err != nil {
		return nil, fmt.Errorf("failed to parse query response: %w", err)
	}

	matches := make([]model.SearchMatch, 0, len(queryResp.Matches))
	for _, m := range queryResp.Matches {
		metadata := m.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}
		matches = append(matches, model.SearchMatch{
			ID:       m.ID,
			Score:    m.Score,
			Metadata: metadata,
		})
	}

	return matches, nil
}

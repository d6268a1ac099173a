// Package search は自由文クエリのベクトル検索ゲートウェイを提供する。
// 埋め込み生成と最近傍検索はどちらも外部マネージドサービスへ委譲し、
// このパッケージはその呼び出しと結果整形のみを担う。
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
)

// EmbeddingClient はOpenAI埋め込みAPIのクライアント。
// クエリ文字列を固定次元の数値ベクトルへ変換する。
type EmbeddingClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string // テスト用にエンドポイントを差し替え可能
	apiKey     string
	model      string
}

// NewEmbeddingClient はEmbeddingClientを生成する。
func NewEmbeddingClient(httpClient *http.Client, logger *slog.Logger, endpoint, apiKey, model string) *EmbeddingClient {
	return &EmbeddingClient{
		httpClient: httpClient,
		logger:     logger,
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      model,
	}
}

// embeddingRequest は埋め込みAPIのリクエストボディ。
type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

// embeddingResponse は埋め込みAPIのレスポンスボディ。
type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed はテキストの埋め込みベクトルを取得する。
// 入力中の改行は空白に正規化する。失敗時はリトライせずエラーを返す。
func (c *EmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.ReplaceAll(text, "\n", " ")

	payload, err := json.Marshal(embeddingRequest{
		Input: []string{text},
		Model: c.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("embedding request failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("embedding API returned error status",
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, fmt.Errorf("embedding API returned status %d: %s", resp.StatusCode, string(body))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, fmt.Errorf("failed to parse embedding response: %w", err)
	}

	if len(embResp.Data) == 0 || len(embResp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embedding response contains no vector")
	}

	return embResp.Data[0].Embedding, nil
}

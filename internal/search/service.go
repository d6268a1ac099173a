package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hitoshi/notepin/internal/model"
)

// Embedder はテキストを埋め込みベクトルへ変換するインターフェース。
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index はベクトルの最近傍検索を行うインターフェース。
type Index interface {
	Query(ctx context.Context, vector []float32, topK int) ([]model.SearchMatch, error)
}

// MetricsRecorder は検索のメトリクス収集インターフェース。
// metrics.Collectorの部分集合として定義する。
type MetricsRecorder interface {
	RecordSearchSuccess()
	RecordSearchFailure()
	RecordEmbeddingLatency(d time.Duration)
	RecordIndexLatency(d time.Duration)
}

// nopMetrics は何も記録しないMetricsRecorder。テスト用。
type nopMetrics struct{}

func (nopMetrics) RecordSearchSuccess()                 {}
func (nopMetrics) RecordSearchFailure()                 {}
func (nopMetrics) RecordEmbeddingLatency(time.Duration) {}
func (nopMetrics) RecordIndexLatency(time.Duration)     {}

// Service は検索ゲートウェイのビジネスロジックを提供する。
// 同一クエリでも毎回埋め込み直してインデックスに問い合わせる（キャッシュなし）。
type Service struct {
	embedder Embedder
	index    Index
	topK     int
	metrics  MetricsRecorder
}

// NewService はServiceを生成する。metricsがnilの場合は何も記録しない。
func NewService(embedder Embedder, index Index, topK int, metrics MetricsRecorder) *Service {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Service{
		embedder: embedder,
		index:    index,
		topK:     topK,
		metrics:  metrics,
	}
}

// Search はクエリ文字列の最近傍上位topK件をメタデータ付きで返す。
// 空または空白のみのクエリは外部呼び出しの前にクライアントエラーとして拒否する。
// 上流の失敗はリトライせず検索失敗として呼び出し元へ伝播する。
func (s *Service) Search(ctx context.Context, query string) ([]model.SearchMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, model.NewEmptyQueryError()
	}

	embedStart := time.Now()
	vector, err := s.embedder.Embed(ctx, query)
	s.metrics.RecordEmbeddingLatency(time.Since(embedStart))
	if err != nil {
		s.metrics.RecordSearchFailure()
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	queryStart := time.Now()
	matches, err := s.index.Query(ctx, vector, s.topK)
	s.metrics.RecordIndexLatency(time.Since(queryStart))
	if err != nil {
		s.metrics.RecordSearchFailure()
		return nil, fmt.Errorf("failed to query vector index: %w", err)
	}

	s.metrics.RecordSearchSuccess()
	return matches, nil
}

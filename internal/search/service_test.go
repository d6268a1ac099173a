package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/notepin/internal/model"
)

// fakeEmbedder はEmbedderのテスト用フェイク。呼び出し回数を記録する。
type fakeEmbedder struct {
	called int
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.called++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

// fakeIndex はIndexのテスト用フェイク。
type fakeIndex struct {
	called  int
	gotTopK int
	matches []model.SearchMatch
	err     error
}

func (f *fakeIndex) Query(ctx context.Context, vector []float32, topK int) ([]model.SearchMatch, error) {
	f.called++
	f.gotTopK = topK
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

// countingMetrics はMetricsRecorderのテスト用フェイク。
type countingMetrics struct {
	success   int
	failure   int
	embedObs  int
	indexObs  int
}

func (m *countingMetrics) RecordSearchSuccess()                 { m.success++ }
func (m *countingMetrics) RecordSearchFailure()                 { m.failure++ }
func (m *countingMetrics) RecordEmbeddingLatency(time.Duration) { m.embedObs++ }
func (m *countingMetrics) RecordIndexLatency(time.Duration)     { m.indexObs++ }

func TestSearch_Success(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	index := &fakeIndex{matches: []model.SearchMatch{
		{ID: "doc-1", Score: 0.1, Metadata: map[string]any{"info": "開館時間"}},
	}}
	metrics := &countingMetrics{}
	service := NewService(embedder, index, 7, metrics)

	matches, err := service.Search(context.Background(), "博物館はいつ開く")
	if err != nil {
		t.Fatalf("Search() がエラーを返した: %v", err)
	}

	if len(matches) != 1 || matches[0].ID != "doc-1" {
		t.Errorf("matches = %v", matches)
	}
	if index.gotTopK != 7 {
		t.Errorf("topK = %d, want 7", index.gotTopK)
	}
	if metrics.success != 1 || metrics.failure != 0 {
		t.Errorf("メトリクス success=%d failure=%d", metrics.success, metrics.failure)
	}
	if metrics.embedObs != 1 || metrics.indexObs != 1 {
		t.Errorf("レイテンシ記録 embed=%d index=%d", metrics.embedObs, metrics.indexObs)
	}
}

func TestSearch_EmptyQuery_NoUpstreamCall(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"空文字", ""},
		{"空白のみ", "   "},
		{"タブと改行のみ", "\t\n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder := &fakeEmbedder{vector: []float32{0.1}}
			index := &fakeIndex{}
			service := NewService(embedder, index, 7, nil)

			_, err := service.Search(context.Background(), tt.query)
			if err == nil {
				t.Fatal("空のクエリはエラーを返すべき")
			}

			var reqErr *model.RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("RequestErrorであるべき: %v", err)
			}
			if reqErr.Status != 400 {
				t.Errorf("Status = %d, want 400", reqErr.Status)
			}

			// 外部呼び出しは一切行われない
			if embedder.called != 0 {
				t.Errorf("埋め込みAPIが呼ばれてはならない（呼び出し回数 = %d）", embedder.called)
			}
			if index.called != 0 {
				t.Errorf("インデックスが呼ばれてはならない（呼び出し回数 = %d）", index.called)
			}
		})
	}
}

func TestSearch_EmbedFailure(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("upstream down")}
	index := &fakeIndex{}
	metrics := &countingMetrics{}
	service := NewService(embedder, index, 7, metrics)

	_, err := service.Search(context.Background(), "query")
	if err == nil {
		t.Fatal("埋め込み失敗時はエラーを返すべき")
	}

	// 埋め込みに失敗したらインデックスは呼ばない
	if index.called != 0 {
		t.Errorf("インデックスが呼ばれてはならない（呼び出し回数 = %d）", index.called)
	}
	if metrics.failure != 1 {
		t.Errorf("failure = %d, want 1", metrics.failure)
	}
}

func TestSearch_IndexFailure(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	index := &fakeIndex{err: errors.New("index down")}
	metrics := &countingMetrics{}
	service := NewService(embedder, index, 7, metrics)

	_, err := service.Search(context.Background(), "query")
	if err == nil {
		t.Fatal("インデックス問い合わせ失敗時はエラーを返すべき")
	}
	if metrics.failure != 1 || metrics.success != 0 {
		t.Errorf("メトリクス success=%d failure=%d", metrics.success, metrics.failure)
	}
}

func TestSearch_NoCache_EmbedsEveryTime(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	index := &fakeIndex{matches: []model.SearchMatch{}}
	service := NewService(embedder, index, 7, nil)

	// 同一クエリでも毎回埋め込み直す
	for i := 0; i < 3; i++ {
		if _, err := service.Search(context.Background(), "同じクエリ"); err != nil {
			t.Fatalf("Search() がエラーを返した: %v", err)
		}
	}

	if embedder.called != 3 {
		t.Errorf("埋め込み回数 = %d, want 3", embedder.called)
	}
	if index.called != 3 {
		t.Errorf("インデックス問い合わせ回数 = %d, want 3", index.called)
	}
}

func TestNewService_NilMetrics(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	index := &fakeIndex{matches: []model.SearchMatch{}}
	service := NewService(embedder, index, 7, nil)

	// nilメトリクスでもpanicしない
	if _, err := service.Search(context.Background(), "query"); err != nil {
		t.Fatalf("Search() がエラーを返した: %v", err)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/notepin/internal/model"
)

func newTestRateLimiter(generalBurst, searchBurst int) *RateLimiter {
	return NewRateLimiter(RateLimiterConfig{
		GeneralRate:     rate.Limit(0.001), // テスト中に補充されない低レート
		GeneralBurst:    generalBurst,
		SearchRate:      rate.Limit(0.001),
		SearchBurst:     searchBurst,
		CleanupInterval: time.Hour,
	})
}

func doRequest(t *testing.T, handler http.Handler, lineID string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req = req.WithContext(ContextWithSession(req.Context(), &model.Session{
		ID:     "sess-" + lineID,
		LineID: lineID,
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGeneralMiddleware_AllowsWithinBurst(t *testing.T) {
	rl := newTestRateLimiter(3, 1)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		rec := doRequest(t, handler, "U1")
		if rec.Code != http.StatusOK {
			t.Fatalf("%d回目のリクエスト: status = %d, want 200", i+1, rec.Code)
		}
	}
}

func TestGeneralMiddleware_BlocksOverBurst(t *testing.T) {
	rl := newTestRateLimiter(2, 1)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	doRequest(t, handler, "U1")
	doRequest(t, handler, "U1")
	rec := doRequest(t, handler, "U1")

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-Afterヘッダーが設定されていない")
	}
}

func TestGeneralMiddleware_PerUserLimits(t *testing.T) {
	rl := newTestRateLimiter(1, 1)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// U1の枠を使い切る
	doRequest(t, handler, "U1")
	if rec := doRequest(t, handler, "U1"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("U1の2回目: status = %d, want 429", rec.Code)
	}

	// U2は影響を受けない
	if rec := doRequest(t, handler, "U2"); rec.Code != http.StatusOK {
		t.Errorf("U2の1回目: status = %d, want 200", rec.Code)
	}
}

func TestSearchMiddleware_IndependentOfGeneral(t *testing.T) {
	rl := newTestRateLimiter(1, 2)
	defer rl.Stop()

	generalHandler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	searchHandler := rl.SearchMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// API全般の枠を使い切っても検索の枠は残る
	doRequest(t, generalHandler, "U1")
	if rec := doRequest(t, generalHandler, "U1"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("一般リミッター: status = %d, want 429", rec.Code)
	}

	if rec := doRequest(t, searchHandler, "U1"); rec.Code != http.StatusOK {
		t.Errorf("検索リミッター: status = %d, want 200", rec.Code)
	}
}

func TestMiddleware_NoSession_Unauthorized(t *testing.T) {
	rl := newTestRateLimiter(1, 1)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("セッションなしでハンドラーが呼ばれてはならない")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestNewRateLimiterConfig(t *testing.T) {
	cfg := NewRateLimiterConfig(120, 20)

	if cfg.GeneralBurst != 120 {
		t.Errorf("GeneralBurst = %d, want 120", cfg.GeneralBurst)
	}
	if cfg.SearchBurst != 20 {
		t.Errorf("SearchBurst = %d, want 20", cfg.SearchBurst)
	}
	if cfg.GeneralRate != rate.Limit(2.0) {
		t.Errorf("GeneralRate = %v, want 2.0 req/sec", cfg.GeneralRate)
	}
}

func TestLimiterCounts(t *testing.T) {
	rl := newTestRateLimiter(5, 5)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	doRequest(t, handler, "U1")
	doRequest(t, handler, "U2")

	if got := rl.GeneralLimiterCount(); got != 2 {
		t.Errorf("GeneralLimiterCount() = %d, want 2", got)
	}
	if got := rl.SearchLimiterCount(); got != 0 {
		t.Errorf("SearchLimiterCount() = %d, want 0", got)
	}
}

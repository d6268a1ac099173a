package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/notepin/internal/metrics"
	"github.com/hitoshi/notepin/internal/middleware"
)

// Pinger はDB疎通確認のインターフェース。*sql.DBが満たす。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	SessionSecret     string
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 検索
	SearchService SearchServiceInterface

	// ピン
	PinStore  PinStore
	URLGuard  URLValidator
	Sanitizer TextSanitizer

	// メッセージ
	MessageStore MessageStore

	// 運用系
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
	DB       Pinger
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → CORS → (ページ: PageSession / API: Session → RateLimit)
//
// 認証ルート（/login, /callback, /logout）と運用ルート（/health, /metrics）は
// セッションミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	// metricsはnilでも動作する（その場合は記録しない）
	var loginMetrics LoginMetricsRecorder
	var pinMetrics PinMetricsRecorder
	if deps.Metrics != nil {
		loginMetrics = deps.Metrics
		pinMetrics = deps.Metrics
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.SessionFinder, loginMetrics, deps.AuthConfig)
	searchHandler := NewSearchHandler(deps.SearchService)
	pinHandler := NewPinHandler(deps.PinStore, deps.URLGuard, deps.Sanitizer, pinMetrics)
	messageHandler := NewMessageHandler(deps.MessageStore)

	pageHandler, err := NewPageHandler(deps.SessionFinder, deps.SessionSecret)
	if err != nil {
		return nil, err
	}

	// --- 認証不要のルート ---

	// ページ（/は内部で未認証をリダイレクトする）
	r.Get("/", pageHandler.Index)
	r.Get("/login-page", pageHandler.LoginPage)

	// LINE Loginフロー
	r.Get("/login", authHandler.Login)
	r.Get("/callback", authHandler.Callback)
	r.Get("/logout", authHandler.Logout)

	// 運用ルート
	r.Get("/health", NewHealthHandler(deps.DB))
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- 認証が必要なページ ---
	// 未認証はログインページへリダイレクト
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewPageSessionMiddleware(deps.SessionFinder, deps.SessionSecret, "/login-page"))
		r.Get("/notebook", pageHandler.Notebook)
	})

	// --- 認証が必要なAPI ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder, deps.SessionSecret))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ユーザー情報
		r.Get("/api/user", authHandler.Me)

		// メッセージ閲覧
		r.Get("/api/messages", messageHandler.List)

		// ベクトル検索（従量課金APIを叩くため検索専用レート制限を追加）
		r.With(deps.RateLimiter.SearchMiddleware()).Post("/search", searchHandler.Search)

		// ピン管理
		r.Post("/pin", pinHandler.Pin)
		r.Post("/unpin", pinHandler.Unpin)
		r.Get("/get_pinned", pinHandler.GetPinned)
		r.Post("/check_pinned", pinHandler.CheckPinned)
	})

	return r, nil
}

// NewHealthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
func NewHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				middleware.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
				return
			}
		}

		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	}
}

package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/hitoshi/notepin/internal/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageHandler は画面表示用のHTTPハンドラー。
type PageHandler struct {
	templates *template.Template
	finder    middleware.SessionFinder
	secret    string
}

// NewPageHandler はPageHandlerを生成する。テンプレートの解析に失敗した場合はエラーを返す。
func NewPageHandler(finder middleware.SessionFinder, secret string) (*PageHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		templates: tmpl,
		finder:    finder,
		secret:    secret,
	}, nil
}

// pageData はテンプレートに渡すデータ。
type pageData struct {
	Name string
}

// Index は検索ページを表示する。未認証の場合はログインページへリダイレクトする。
// GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	// ログインしていなくても表示する。セッションがあれば名前を出す
	var data pageData
	if session := middleware.LookupSession(r, h.finder, h.secret); session != nil {
		data.Name = session.Name
	}

	h.render(w, "main.html", data)
}

// Notebook はノートブックページ（メッセージとピンの閲覧画面）を表示する。
// GET /notebook
func (h *PageHandler) Notebook(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login-page", http.StatusFound)
		return
	}

	h.render(w, "notebook.html", pageData{Name: session.Name})
}

// LoginPage はログインページを表示する。認証済みの場合はトップページへリダイレクトする。
// GET /login-page
func (h *PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.LookupSession(r, h.finder, h.secret) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	h.render(w, "login.html", pageData{})
}

func (h *PageHandler) render(w http.ResponseWriter, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("failed to render template",
			slog.String("template", name),
			slog.String("error", err.Error()),
		)
	}
}

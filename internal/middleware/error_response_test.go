package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/notepin/internal/model"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, 400, "bad request")

	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("レスポンスのパースに失敗: %v", err)
	}
	if body["error"] != "bad request" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, 200, map[string]bool{"exists": true})

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	var body map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("レスポンスのパースに失敗: %v", err)
	}
	if !body["exists"] {
		t.Error("exists = false, want true")
	}
}

func TestWriteServiceError_RequestError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteServiceError(rec, model.NewEmptyQueryError())

	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "請輸入搜尋內容" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestWriteServiceError_WrappedRequestError(t *testing.T) {
	rec := httptest.NewRecorder()

	wrapped := fmt.Errorf("handler: %w", model.NewMissingPinFieldsError())
	WriteServiceError(rec, wrapped)

	// ラップされていてもRequestErrorのステータスとメッセージが使われる
	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "缺少必要的資料" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestWriteServiceError_InternalError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteServiceError(rec, errors.New("connection refused"))

	if rec.Code != 500 {
		t.Errorf("status = %d, want 500", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	// 上流の失敗は呼び出し元へそのまま伝わる
	if body["error"] != "connection refused" {
		t.Errorf("error = %q", body["error"])
	}
}

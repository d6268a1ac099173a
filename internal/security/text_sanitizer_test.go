package security

import "testing"

func TestSanitize(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"プレーンテキストはそのまま", "博物館 10:00-17:00", "博物館 10:00-17:00"},
		{"scriptタグを除去", "<script>alert(1)</script>営業時間", "営業時間"},
		{"imgタグを除去", `<img src=x onerror=alert(1)>案内`, "案内"},
		{"ネストしたタグを除去", "<div><b>重要</b>なお知らせ</div>", "重要なお知らせ"},
		{"アンパサンドを保持", "A & B", "A & B"},
		{"山括弧風の比較記号", "10 < 20", "10 < 20"},
		{"空文字", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizer.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewTextSanitizer()

	input := "<b>営業時間</b> 10:00"
	once := sanitizer.Sanitize(input)
	twice := sanitizer.Sanitize(once)

	if once != twice {
		t.Errorf("Sanitizeは冪等であるべき: 1回目=%q 2回目=%q", once, twice)
	}
}

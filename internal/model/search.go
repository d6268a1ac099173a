package model

// SearchMatch はベクトル検索の1件のヒットを表す。
// Scoreはインデックス側の距離メトリクスに基づく類似度で、
// ローカルでの再ランキングは行わない。
type SearchMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

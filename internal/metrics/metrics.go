// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	loginSuccess     prometheus.Counter
	loginFail        prometheus.Counter
	searchSuccess    prometheus.Counter
	searchFail       prometheus.Counter
	pinsCreated      prometheus.Counter
	embeddingLatency prometheus.Histogram
	indexLatency     prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notepin_login_success_total",
			Help: "LINE Loginコールバック成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notepin_login_fail_total",
			Help: "LINE Loginコールバック失敗の合計数",
		}),
		searchSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notepin_search_success_total",
			Help: "ベクトル検索成功の合計数",
		}),
		searchFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notepin_search_fail_total",
			Help: "ベクトル検索失敗の合計数",
		}),
		pinsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notepin_pins_created_total",
			Help: "新規に作成されたピンの合計数",
		}),
		embeddingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "notepin_embedding_latency_seconds",
			Help:    "埋め込みAPI呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		indexLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "notepin_index_query_latency_seconds",
			Help:    "ベクトルインデックス問い合わせのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.loginSuccess,
		c.loginFail,
		c.searchSuccess,
		c.searchFail,
		c.pinsCreated,
		c.embeddingLatency,
		c.indexLatency,
	)

	return c
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordSearchSuccess は検索成功を記録する。
func (c *Collector) RecordSearchSuccess() {
	c.searchSuccess.Inc()
}

// RecordSearchFailure は検索失敗を記録する。
func (c *Collector) RecordSearchFailure() {
	c.searchFail.Inc()
}

// RecordPinCreated は新規ピン作成を記録する。
func (c *Collector) RecordPinCreated() {
	c.pinsCreated.Inc()
}

// RecordEmbeddingLatency は埋め込みAPI呼び出しのレイテンシを記録する。
func (c *Collector) RecordEmbeddingLatency(d time.Duration) {
	c.embeddingLatency.Observe(d.Seconds())
}

// RecordIndexLatency はインデックス問い合わせのレイテンシを記録する。
func (c *Collector) RecordIndexLatency(d time.Duration) {
	c.indexLatency.Observe(d.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// 認証・登録イベントのカウンターを保持する。
type Collector struct {
	registrations         prometheus.Counter
	registrationConflicts *prometheus.CounterVec
	logins                *prometheus.CounterVec
	tokenVerifications    *prometheus.CounterVec
	agreementsSaved       prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "memberd_registrations_total",
			Help: "会員登録成功の合計数",
		}),
		registrationConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memberd_registration_conflicts_total",
			Help: "フィールド別の会員登録重複エラー数",
		}, []string{"field"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memberd_logins_total",
			Help: "結果別のログイン試行数",
		}, []string{"result"}),
		tokenVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memberd_token_verifications_total",
			Help: "結果別のトークン検証数",
		}, []string{"result"}),
		agreementsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "memberd_agreements_saved_total",
			Help: "保存された約款同意の合計数",
		}),
	}

	reg.MustRegister(
		c.registrations,
		c.registrationConflicts,
		c.logins,
		c.tokenVerifications,
		c.agreementsSaved,
	)

	return c
}

// RecordRegistration は会員登録成功を記録する。
func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

// RecordRegistrationConflict はフィールド重複による登録失敗を記録する。
// fieldは"login_id"、"nickname"、"email"のいずれか。
func (c *Collector) RecordRegistrationConflict(field string) {
	c.registrationConflicts.WithLabelValues(field).Inc()
}

// RecordLogin はログイン試行の結果を記録する。
// resultは"success"、"not_found"、"invalid_password"、"withdrawn"のいずれか。
func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

// RecordTokenVerification はトークン検証の結果を記録する。
// resultは"success"、"missing"、"invalid"のいずれか。
func (c *Collector) RecordTokenVerification(result string) {
	c.tokenVerifications.WithLabelValues(result).Inc()
}

// RecordAgreementsSaved は保存された同意件数を記録する。
func (c *Collector) RecordAgreementsSaved(count int) {
	c.agreementsSaved.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

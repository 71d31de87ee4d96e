package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics 定义业务监控指标
type BusinessMetrics struct {
	TipsRecordedTotal         *prometheus.CounterVec
	TipAmountCentsTotal       *prometheus.CounterVec
	VerificationFailuresTotal *prometheus.CounterVec
	FraudSignalsTotal         *prometheus.CounterVec
	ReceiptPollAttempts       *prometheus.HistogramVec
	VerificationDuration      *prometheus.HistogramVec
	PriceCacheTotal           *prometheus.CounterVec
	OutboxRelayedTotal        *prometheus.CounterVec
}

// Global Metrics Instance
// 未调用 Init 时为 nil，下方辅助函数直接跳过 (测试与 CLI 不注册指标)
var Business *BusinessMetrics

// InitBusinessMetrics 初始化业务指标
func InitBusinessMetrics() {
	Business = &BusinessMetrics{
		TipsRecordedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tip_recorded_total",
			Help: "The total number of crypto tips recorded",
		}, []string{"chain"}),
		TipAmountCentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tip_amount_cents_total",
			Help: "Total USD cents of recorded crypto tips",
		}, []string{"chain"}),
		VerificationFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tip_verification_failures_total",
			Help: "Verification failures by terminal reason",
		}, []string{"reason"}),
		FraudSignalsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tip_fraud_signals_total",
			Help: "Submissions whose on-chain recipient or amount disagreed with the claim",
		}, []string{"kind", "chain"}),
		ReceiptPollAttempts: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tip_receipt_poll_attempts",
			Help:    "Receipt polling attempts per verification",
			Buckets: []float64{1, 2, 3, 5, 8, 12, 20},
		}, []string{"chain"}),
		VerificationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tip_verification_duration_seconds",
			Help:    "Duration of the settlement pipeline",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 90},
		}, []string{"result"}),
		PriceCacheTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tip_price_cache_total",
			Help: "Price cache lookups by result",
		}, []string{"result"}),
		OutboxRelayedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tip_outbox_relayed_total",
			Help: "Outbox messages relayed to MQ",
		}, []string{"topic", "status"}),
	}
}

func RecordTip(chain string, amountCents int64) {
	if Business == nil {
		return
	}
	Business.TipsRecordedTotal.WithLabelValues(chain).Inc()
	Business.TipAmountCentsTotal.WithLabelValues(chain).Add(float64(amountCents))
}

func RecordFailure(reason string) {
	if Business == nil {
		return
	}
	Business.VerificationFailuresTotal.WithLabelValues(reason).Inc()
}

func RecordFraudSignal(kind, chain string) {
	if Business == nil {
		return
	}
	Business.FraudSignalsTotal.WithLabelValues(kind, chain).Inc()
}

func ObserveReceiptAttempts(chain string, attempts int) {
	if Business == nil {
		return
	}
	Business.ReceiptPollAttempts.WithLabelValues(chain).Observe(float64(attempts))
}

func ObserveVerification(result string, d time.Duration) {
	if Business == nil {
		return
	}
	Business.VerificationDuration.WithLabelValues(result).Observe(d.Seconds())
}

func RecordPriceCache(hit bool) {
	if Business == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	Business.PriceCacheTotal.WithLabelValues(result).Inc()
}

func RecordOutboxRelay(topic, status string) {
	if Business == nil {
		return
	}
	Business.OutboxRelayedTotal.WithLabelValues(topic, status).Inc()
}

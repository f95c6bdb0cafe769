package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics メトリクス定義
type Metrics struct {
	// 購入試行数
	PurchaseCount metric.Int64Counter

	// 決済レースの解決結果数
	SettlementCount metric.Int64Counter

	// 引き換え呼び出し数
	RedemptionCount metric.Int64Counter

	// コレクション内のカード数
	CardCount metric.Int64Gauge

	// リクエスト数
	RequestCount metric.Int64Counter

	// レスポンス時間
	ResponseTime metric.Float64Histogram

	// エラー率
	ErrorCount metric.Int64Counter
}

// NewMetrics 新しいMetricsを作成
func NewMetrics(meterName string) (*Metrics, error) {
	meter := otel.Meter(meterName)

	purchaseCount, err := meter.Int64Counter(
		"purchases_total",
		metric.WithDescription("Total number of purchase attempts"),
	)
	if err != nil {
		return nil, err
	}

	settlementCount, err := meter.Int64Counter(
		"settlements_total",
		metric.WithDescription("Total number of settlement race resolutions"),
	)
	if err != nil {
		return nil, err
	}

	redemptionCount, err := meter.Int64Counter(
		"redemptions_total",
		metric.WithDescription("Total number of redemption calls"),
	)
	if err != nil {
		return nil, err
	}

	cardCount, err := meter.Int64Gauge(
		"gift_cards",
		metric.WithDescription("Number of gift cards in the collection"),
	)
	if err != nil {
		return nil, err
	}

	requestCount, err := meter.Int64Counter(
		"requests_total",
		metric.WithDescription("Total number of requests"),
	)
	if err != nil {
		return nil, err
	}

	responseTime, err := meter.Float64Histogram(
		"response_time_seconds",
		metric.WithDescription("Response time in seconds"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		PurchaseCount:   purchaseCount,
		SettlementCount: settlementCount,
		RedemptionCount: redemptionCount,
		CardCount:       cardCount,
		RequestCount:    requestCount,
		ResponseTime:    responseTime,
		ErrorCount:      errorCount,
	}, nil
}

// RecordPurchase 購入試行を記録
func (m *Metrics) RecordPurchase(ctx context.Context, brand, outcome string) {
	m.PurchaseCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("brand", brand),
			attribute.String("outcome", outcome),
		),
	)
}

// RecordSettlement 決済レースの解決を記録
func (m *Metrics) RecordSettlement(ctx context.Context, resolution string) {
	m.SettlementCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("resolution", resolution),
		),
	)
}

// RecordRedemption 引き換え呼び出しを記録
func (m *Metrics) RecordRedemption(ctx context.Context, brand, status string) {
	m.RedemptionCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("brand", brand),
			attribute.String("status", status),
		),
	)
}

// RecordCardCount コレクション内のカード数を記録
func (m *Metrics) RecordCardCount(ctx context.Context, count int64) {
	m.CardCount.Record(ctx, count)
}

// RecordRequest リクエストを記録
func (m *Metrics) RecordRequest(ctx context.Context, method, path string) {
	m.RequestCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordResponseTime レスポンス時間を記録
func (m *Metrics) RecordResponseTime(ctx context.Context, method, path string, duration float64) {
	m.ResponseTime.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordError エラーを記録
func (m *Metrics) RecordError(ctx context.Context, errorType string) {
	m.ErrorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error_type", errorType),
		),
	)
}

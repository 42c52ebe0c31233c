package xattempt

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// 指标名称常量
const (
	// metricNameTransitionsTotal 状态迁移计数器
	metricNameTransitionsTotal = "xattempt.transitions.total"
	// metricNameSwapsTotal 句柄替换计数器
	metricNameSwapsTotal = "xattempt.handle.swaps.total"
	// metricNameReleasedTotal 关闭时释放的句柄引用计数器
	metricNameReleasedTotal = "xattempt.retired.released.total"
)

// Metrics 生命周期指标收集器。
// 所有记录方法对 nil 接收者安全（不收集指标时零开销早返回）。
type Metrics struct {
	meter            metric.Meter
	transitionsTotal metric.Int64Counter
	swapsTotal       metric.Int64Counter
	releasedTotal    metric.Int64Counter
}

// NewMetrics 创建指标收集器。
// meterProvider 为 nil 时返回 (nil, nil)，表示不收集指标。
func NewMetrics(meterProvider metric.MeterProvider) (*Metrics, error) {
	if meterProvider == nil {
		return nil, nil
	}

	meter := meterProvider.Meter("xattempt",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	transitionsTotal, err := meter.Int64Counter(
		metricNameTransitionsTotal,
		metric.WithDescription("状态迁移尝试总数"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	swapsTotal, err := meter.Int64Counter(
		metricNameSwapsTotal,
		metric.WithDescription("当前句柄被原子替换的次数"),
		metric.WithUnit("{swap}"),
	)
	if err != nil {
		return nil, err
	}

	releasedTotal, err := meter.Int64Counter(
		metricNameReleasedTotal,
		metric.WithDescription("Close 时释放的句柄引用数"),
		metric.WithUnit("{handle}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		meter:            meter,
		transitionsTotal: transitionsTotal,
		swapsTotal:       swapsTotal,
		releasedTotal:    releasedTotal,
	}, nil
}

// recordTransition 记录一次状态迁移尝试。
// prior/target: 迁移的实际观测前驱与目标；accepted: 迁移是否生效。
func (m *Metrics) recordTransition(name string, prior, target State, accepted bool) {
	if m == nil {
		return
	}
	m.transitionsTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("box", name),
		attribute.String("from", prior.String()),
		attribute.String("to", target.String()),
		attribute.Bool("accepted", accepted),
	))
}

// recordSwap 记录一次句柄替换。
func (m *Metrics) recordSwap(name string) {
	if m == nil {
		return
	}
	m.swapsTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("box", name),
	))
}

// recordReleased 记录 Close 时释放的引用数。
func (m *Metrics) recordReleased(name string, n int) {
	if m == nil {
		return
	}
	m.releasedTotal.Add(context.Background(), int64(n), metric.WithAttributes(
		attribute.String("box", name),
	))
}

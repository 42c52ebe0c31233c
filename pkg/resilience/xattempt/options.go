package xattempt

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
)

// options Box 的可选配置。
type options struct {
	name          string
	logger        *slog.Logger
	meterProvider metric.MeterProvider
}

func defaultOptions() *options {
	// 日志与指标默认关闭：本包位于热路径之下，可观测性必须显式开启
	return &options{}
}

// Option 配置 Box。
type Option func(*options)

// WithName 设置 Box 名称，用于区分日志与指标来源。
// 空字符串被静默忽略。
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger 设置日志记录器。仅在被拒绝的迁移与 Close 时输出 Debug 日志，
// 永不触达 wait-free 读取路径。nil 被静默忽略（保持关闭）。
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMeterProvider 设置 OpenTelemetry MeterProvider 以启用指标收集。
// nil 被静默忽略（不收集指标）。
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		if mp != nil {
			o.meterProvider = mp
		}
	}
}

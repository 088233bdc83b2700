// Package otel exports pictograph log records through OpenTelemetry. Records
// go to the session log file, an OTLP/HTTP collector, or both.
package otel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Sink names an export destination.
type Sink string

const (
	SinkFile Sink = "file"
	SinkOTLP Sink = "otlp"
)

// ErrNoSinks is returned when export is enabled but nowhere to send records.
var ErrNoSinks = errors.New("otel enabled but no log writer or endpoint configured")

// Config holds OTel configuration
type Config struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	BatchTimeout   time.Duration

	LogWriter io.Writer // session log file; records are pretty-printed into it
	Endpoint  string    // OTLP/HTTP endpoint, optional
	Insecure  bool
}

// Provider owns the log export pipeline. A nil *Provider is valid and
// exports nothing.
type Provider struct {
	logs  *sdklog.LoggerProvider
	sinks []Sink
}

// New builds the pipeline. It returns a nil provider when export is disabled.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	procs, sinks, err := processors(ctx, cfg)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(serviceAttrs(cfg)...))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []sdklog.LoggerProviderOption{sdklog.WithResource(res)}
	for _, proc := range procs {
		opts = append(opts, sdklog.WithProcessor(proc))
	}

	return &Provider{
		logs:  sdklog.NewLoggerProvider(opts...),
		sinks: sinks,
	}, nil
}

func serviceAttrs(cfg Config) []attribute.KeyValue {
	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}
	return attrs
}

func processors(ctx context.Context, cfg Config) ([]sdklog.Processor, []Sink, error) {
	var (
		procs []sdklog.Processor
		sinks []Sink
	)

	if cfg.LogWriter != nil {
		exp, err := stdoutlog.New(
			stdoutlog.WithWriter(cfg.LogWriter),
			stdoutlog.WithPrettyPrint(),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create file log exporter: %w", err)
		}
		procs = append(procs, batch(exp, cfg.BatchTimeout))
		sinks = append(sinks, SinkFile)
	}

	if cfg.Endpoint != "" {
		otlpOpts := []otlploghttp.Option{otlploghttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			otlpOpts = append(otlpOpts, otlploghttp.WithInsecure())
		}
		exp, err := otlploghttp.New(ctx, otlpOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
		}
		procs = append(procs, batch(exp, cfg.BatchTimeout))
		sinks = append(sinks, SinkOTLP)
	}

	if len(procs) == 0 {
		return nil, nil, ErrNoSinks
	}
	return procs, sinks, nil
}

// batch wraps exp; a zero timeout keeps the SDK default.
func batch(exp sdklog.Exporter, timeout time.Duration) sdklog.Processor {
	if timeout <= 0 {
		return sdklog.NewBatchProcessor(exp)
	}
	return sdklog.NewBatchProcessor(exp, sdklog.WithExportTimeout(timeout))
}

// LoggerProvider returns the log provider for the otelslog bridge, or nil.
func (p *Provider) LoggerProvider() *sdklog.LoggerProvider {
	if p == nil {
		return nil
	}
	return p.logs
}

// Sinks lists the active export destinations.
func (p *Provider) Sinks() []Sink {
	if p == nil {
		return nil
	}
	return p.sinks
}

// Flush forces a flush of all pending logs.
func (p *Provider) Flush(ctx context.Context) error {
	if p == nil {
		return nil
	}
	if err := p.logs.ForceFlush(ctx); err != nil {
		return fmt.Errorf("log flush failed: %w", err)
	}
	return nil
}

// Shutdown flushes and stops every exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	if err := p.logs.Shutdown(ctx); err != nil {
		return fmt.Errorf("log shutdown failed: %w", err)
	}
	return nil
}

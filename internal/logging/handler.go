package logging

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Scope tracks the sequence being worked on. While set, its word and beat
// are stamped on every record.
type Scope struct {
	mu      sync.RWMutex
	word    string
	beat    float64
	hasBeat bool
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// SetWord records the word of the loaded sequence.
func (s *Scope) SetWord(word string) {
	s.mu.Lock()
	s.word = word
	s.mu.Unlock()
}

// SetBeat records the beat being evaluated.
func (s *Scope) SetBeat(beat float64) {
	s.mu.Lock()
	s.beat, s.hasBeat = beat, true
	s.mu.Unlock()
}

// ClearBeat drops the beat; the word stays.
func (s *Scope) ClearBeat() {
	s.mu.Lock()
	s.hasBeat = false
	s.mu.Unlock()
}

func (s *Scope) attrs() []slog.Attr {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var attrs []slog.Attr
	if s.word != "" {
		attrs = append(attrs, slog.String("word", s.word))
	}
	if s.hasBeat {
		attrs = append(attrs, slog.Float64("beat", s.beat))
	}
	return attrs
}

// scopeHandler stamps the scope's attributes on each record before passing
// it on.
type scopeHandler struct {
	next  slog.Handler
	scope *Scope
}

func (h *scopeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *scopeHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(h.scope.attrs()...)
	return h.next.Handle(ctx, r)
}

func (h *scopeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &scopeHandler{next: h.next.WithAttrs(attrs), scope: h.scope}
}

func (h *scopeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &scopeHandler{next: h.next.WithGroup(name), scope: h.scope}
}

// sinks sends each record to every enabled sink. A failing sink does not
// stop the others; the failures are joined.
type sinks []slog.Handler

func (s sinks) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range s {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (s sinks) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range s {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s sinks) WithAttrs(attrs []slog.Attr) slog.Handler {
	return s.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (s sinks) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	return s.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (s sinks) each(f func(slog.Handler) slog.Handler) sinks {
	out := make(sinks, len(s))
	for i, h := range s {
		out[i] = f(h)
	}
	return out
}

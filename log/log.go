// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log routes package loggers through go-ethereum's slog based logger.
// Loggers created with WithContext at package init follow later calls to Init or SetHandler.
package log

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync/atomic"

	gethlog "github.com/ethereum/go-ethereum/log"
)

type Logger = gethlog.Logger

const (
	LevelTrace = gethlog.LevelTrace
	LevelDebug = gethlog.LevelDebug
	LevelInfo  = gethlog.LevelInfo
	LevelWarn  = gethlog.LevelWarn
	LevelError = gethlog.LevelError
	LevelCrit  = gethlog.LevelCrit
)

var (
	current atomic.Pointer[slog.Handler]
	root    = gethlog.NewLogger(&handler{})
)

func init() {
	SetHandler(gethlog.DiscardHandler())
}

// SetHandler replaces the handler behind every logger of this package.
func SetHandler(h slog.Handler) {
	current.Store(&h)
}

// Init writes human readable records at or above level to w.
func Init(w io.Writer, level slog.Level, useColor bool) {
	SetHandler(gethlog.NewTerminalHandlerWithLevel(w, level, useColor))
}

// FromVerbosity maps the legacy 0-5 verbosity scale used by command line flags.
func FromVerbosity(v int) slog.Level {
	return gethlog.FromLegacyLevel(v)
}

func Root() Logger {
	return root
}

// WithContext returns a logger carrying the given key/value pairs.
func WithContext(ctx ...any) Logger {
	return root.With(ctx...)
}

func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }

// handler resolves the current handler on every record.
type handler struct {
	attrs []slog.Attr
}

func (h *handler) resolve() slog.Handler {
	in := *current.Load()
	if len(h.attrs) > 0 {
		in = in.WithAttrs(h.attrs)
	}
	return in
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return (*current.Load()).Enabled(ctx, level)
}

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	return h.resolve().Handle(ctx, r)
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handler{attrs: append(slices.Clone(h.attrs), attrs...)}
}

func (h *handler) WithGroup(_ string) slog.Handler {
	panic("not implemented")
}

// Package slogobs provides an observability.Provider backed by the standard
// library log/slog package.
//
// Spans, counters and histograms are written as DEBUG records, so a single
// structured log stream carries the whole trace of a controller run. The main
// entry point is [New]; output is tuned with [WithFormat], [WithLevel],
// [WithOutput] and [WithLogger], or with the TOOLLOOP_LOG_FORMAT and
// TOOLLOOP_LOG_LEVEL environment variables.
package slogobs

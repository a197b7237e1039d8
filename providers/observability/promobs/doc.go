// Package promobs exposes toolloop metrics through prometheus/client_golang.
//
// [New] returns an observability.Metrics whose counters and histograms are
// registered lazily on the given registry. Combine it with a tracer and a
// logger using observability.Compose.
package promobs

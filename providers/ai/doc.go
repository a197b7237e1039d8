// Package ai defines the provider-agnostic completion types consumed by the
// controllers. Request data flows through [ChatRequest] and responses are
// returned as [ChatResponse]; [Provider] is the only interface a backend has
// to satisfy.
package ai

// Package inmemory provides a concurrency-safe, slice-backed [memory.Provider]
// for single-process use. The main entry point is [New].
package inmemory

// Package scripted provides an [ai.Provider] that replays a fixed list of
// completions. It backs the package tests and the runnable examples.
package scripted

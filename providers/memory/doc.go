// Package memory defines the Provider interface for conversation history.
// Controllers insert the stored messages right after the system prompt and
// append the user input and the final answer once a run completes.
//
// The bundled implementation lives in
// [github.com/leofalp/toolloop/providers/memory/inmemory].
package memory

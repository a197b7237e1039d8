// Package grammar extracts thoughts, actions and answers from free-text model
// output and builds action descriptors from them.
//
// Two grammars are provided. [Bracket] reads JSON action payloads and is the
// default. [Tagged] reads function_calls markup and is selected when any
// registered tool asks for it. Use [For] to pick one.
//
// Extraction is tolerant: when several markers appear, the last usable one
// wins, and text around the payload is ignored.
package grammar

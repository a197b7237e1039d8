// Package parse provides lenient decoding of structured data embedded in raw
// LLM text output.
//
// Language models produce JSON that is often almost valid: raw newlines inside
// string literals, trailing commas, unquoted keys. [ParseDocument] decodes an
// action payload into a generic object, escaping control characters and
// falling back to automatic JSON repair before giving up. [ParseStringAs] is the
// typed counterpart used by tool activities to decode their input values.
package parse

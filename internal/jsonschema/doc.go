// Package jsonschema generates JSON Schema documents from Go types and
// validates instances against them.
//
// [GenerateJSONSchema] derives a [Schema] from a Go type using reflection. It
// supports structs, primitives, slices, maps, pointers, interfaces and
// recursive types; recursion is resolved with $ref and $defs. [Compile] turns a
// schema into a reusable [Validator] backed by santhosh-tekuri/jsonschema.
package jsonschema

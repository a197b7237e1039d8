package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrNotObject is returned by [ParseDocument] when the content decodes to a JSON
// value that is not an object.
var ErrNotObject = errors.New("toolloop: document is not a JSON object")

// ParseDocument decodes content as a generic JSON object.
//
// Models regularly emit almost-JSON: raw newlines or tabs inside string
// literals, trailing commas, single quotes. Decoding therefore runs in three
// passes, stopping at the first one that succeeds:
//  1. strict encoding/json decoding,
//  2. strict decoding after escaping raw control characters inside strings,
//  3. decoding of the output of jsonrepair.
//
// The returned error wraps the strict decoding error when every pass fails.
func ParseDocument(content string) (map[string]any, error) {
	var value any

	err := json.Unmarshal([]byte(content), &value)
	if err != nil {
		escaped := EscapeControlCharacters(content)
		if escapedErr := json.Unmarshal([]byte(escaped), &value); escapedErr != nil {
			repaired, repairErr := jsonrepair.JSONRepair(content)
			if repairErr != nil {
				return nil, fmt.Errorf("invalid JSON: %w (repair failed: %v)", err, repairErr)
			}
			if repairedErr := json.Unmarshal([]byte(repaired), &value); repairedErr != nil {
				return nil, fmt.Errorf("invalid JSON: %w (repaired content: %s)", err, repaired)
			}
		}
	}

	document, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, value)
	}
	return document, nil
}

// EscapeControlCharacters replaces raw newlines, carriage returns and tabs that
// appear inside JSON string literals with their escaped forms. Characters
// outside string literals are left untouched, so the result is byte-identical
// to the input whenever the input was already valid JSON.
func EscapeControlCharacters(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	inString := false
	escaped := false
	for _, r := range content {
		if !inString {
			if r == '"' {
				inString = true
			}
			b.WriteRune(r)
			continue
		}

		switch {
		case escaped:
			escaped = false
			b.WriteRune(r)
		case r == '\\':
			escaped = true
			b.WriteRune(r)
		case r == '"':
			inString = false
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseStringAs parses content into T.
// Primitive kinds (string, bool, integers, floats) are converted directly;
// every other kind goes through [ParseDocument]-style lenient JSON decoding,
// including the jsonrepair fallback.
//
// Example:
//
//	type Input struct {
//	    A  float64 `json:"A"`
//	    Op string  `json:"Op"`
//	}
//	in, err := parse.ParseStringAs[Input](`{A: 2, Op: 'add',}`)
func ParseStringAs[T any](content string) (T, error) {
	var result T
	target := reflect.ValueOf(&result).Elem()

	switch target.Kind() {
	case reflect.String:
		target.SetString(content)
		return result, nil

	case reflect.Bool:
		val, err := strconv.ParseBool(strings.TrimSpace(content))
		if err != nil {
			return result, fmt.Errorf("failed to parse content as bool: %w", err)
		}
		target.SetBool(val)
		return result, nil

	case reflect.Float32, reflect.Float64:
		val, err := strconv.ParseFloat(strings.TrimSpace(content), 64)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as float: %w", err)
		}
		target.SetFloat(val)
		return result, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := strconv.ParseInt(strings.TrimSpace(content), 10, 64)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as int: %w", err)
		}
		target.SetInt(val)
		return result, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, err := strconv.ParseUint(strings.TrimSpace(content), 10, 64)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as uint: %w", err)
		}
		target.SetUint(val)
		return result, nil
	}

	err := json.Unmarshal([]byte(content), &result)
	if err == nil {
		return result, nil
	}

	if escapedErr := json.Unmarshal([]byte(EscapeControlCharacters(content)), &result); escapedErr == nil {
		return result, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(content)
	if repairErr != nil {
		return result, fmt.Errorf("failed to unmarshal content as %T and failed to repair JSON: unmarshal error: %w, repair error: %v", result, err, repairErr)
	}
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal repaired JSON as %T: %w (original content: %s, repaired: %s)", result, err, content, repaired)
	}
	return result, nil
}

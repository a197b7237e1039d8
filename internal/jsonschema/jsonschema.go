package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Schema represents the structure of JSON Schema used to describe activity
// inputs. Only the subset of keywords the generator emits is modelled.
type Schema struct {
	// Type specifies the data type ("object", "array", "string", ...). Empty
	// means any value is accepted.
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of an object, each with its own schema
	Properties map[string]*Schema `json:"properties,omitempty"`
	// For array types, defines the schema of items in the array
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties is either a *Schema for map values or false for
	// closed objects.
	AdditionalProperties any   `json:"additionalProperties,omitempty"`
	Default              any   `json:"default,omitempty"`
	Enum                 []any `json:"enum,omitempty"`
	// Ref points into Defs for recursive types.
	Ref  string             `json:"$ref,omitempty"`
	Defs map[string]*Schema `json:"$defs,omitempty"`
}

// GenerateJSONSchema derives a JSON schema from the Go type T.
//
// Struct fields are named after their json tag. A field is required unless it
// is a pointer or tagged omitempty; the jsonschema tag can force it with
// "required" and sets "description=..." and "enum=..." values. Structs are
// closed: properties they do not declare are rejected. Interface types accept
// any value. Recursive types are expressed with $ref into $defs on the root.
func GenerateJSONSchema[T any]() (*Schema, error) {
	return generateForType(reflect.TypeFor[T]())
}

func generateForType(t reflect.Type) (*Schema, error) {
	ctx := &schemaContext{
		inProgress: make(map[reflect.Type]bool),
		recursive:  make(map[reflect.Type]bool),
		defs:       make(map[string]*Schema),
	}

	schema, err := ctx.generate(t)
	if err != nil {
		return nil, err
	}
	if len(ctx.defs) > 0 {
		schema.Defs = ctx.defs
	}
	return schema, nil
}

// schemaContext tracks the structs being generated so recursive references
// can be turned into $ref entries.
type schemaContext struct {
	inProgress map[reflect.Type]bool
	recursive  map[reflect.Type]bool
	defs       map[string]*Schema
}

func (ctx *schemaContext) generate(t reflect.Type) (*Schema, error) {
	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}, nil
	case reflect.Bool:
		return &Schema{Type: "boolean"}, nil
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}, nil
	case reflect.Slice, reflect.Array:
		items, err := ctx.generate(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type %v", t.Key())
		}
		values, err := ctx.generate(t.Elem())
		if err != nil {
			return nil, err
		}
		schema := &Schema{Type: "object"}
		if values.Type != "" || values.Ref != "" {
			schema.AdditionalProperties = values
		}
		return schema, nil
	case reflect.Ptr:
		return ctx.generate(t.Elem())
	case reflect.Interface:
		return &Schema{}, nil
	case reflect.Struct:
		return ctx.generateStruct(t)
	default:
		return nil, fmt.Errorf("unsupported type %v", t)
	}
}

func (ctx *schemaContext) generateStruct(t reflect.Type) (*Schema, error) {
	if ctx.inProgress[t] {
		ctx.recursive[t] = true
		return &Schema{Ref: "#/$defs/" + defName(t)}, nil
	}
	ctx.inProgress[t] = true
	defer delete(ctx.inProgress, t)

	schema := &Schema{
		Type:                 "object",
		Properties:           make(map[string]*Schema),
		AdditionalProperties: false,
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitEmpty, skip := jsonFieldName(field)
		if skip {
			continue
		}

		fieldSchema, err := ctx.generate(field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}

		requiredByTag := false
		if fieldSchema.Ref == "" {
			requiredByTag, err = parseJSONSchemaTag(field.Type, field.Tag, fieldSchema)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
		}

		schema.Properties[name] = fieldSchema
		if (field.Type.Kind() != reflect.Ptr && !omitEmpty) || requiredByTag {
			schema.Required = append(schema.Required, name)
		}
	}

	if ctx.recursive[t] {
		ctx.defs[defName(t)] = schema
		return &Schema{Ref: "#/$defs/" + defName(t)}, nil
	}
	return schema, nil
}

// jsonFieldName returns the JSON name of a struct field, whether it carries
// omitempty, and whether it is excluded with json:"-".
func jsonFieldName(field reflect.StructField) (string, bool, bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}

	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	return name, strings.Contains(opts, "omitempty"), false
}

func defName(t reflect.Type) string {
	if t.Name() != "" {
		return strings.ToLower(t.Name())
	}
	return "anonymousStruct"
}

// parseJSONSchemaTag applies the jsonschema struct tag to schema:
//
//	jsonschema:"description=xxx"
//	jsonschema:"enum=add,enum=sub"
//	jsonschema:"required"
//
// Enum values are converted to the field's kind. It reports whether the tag
// marks the field as required.
func parseJSONSchemaTag(fieldType reflect.Type, tag reflect.StructTag, schema *Schema) (bool, error) {
	jsonSchemaTag := tag.Get("jsonschema")
	if jsonSchemaTag == "" {
		return false, nil
	}

	required := false
	for _, item := range strings.Split(jsonSchemaTag, ",") {
		key, value, hasValue := strings.Cut(item, "=")
		if !hasValue {
			if key == "required" {
				required = true
			}
			continue
		}

		switch key {
		case "description":
			schema.Description = value
		case "enum":
			v, err := enumValue(fieldType, value)
			if err != nil {
				return false, err
			}
			schema.Enum = append(schema.Enum, v)
		}
	}
	return required, nil
}

func enumValue(fieldType reflect.Type, value string) (any, error) {
	switch fieldType.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse enum value %v to int64 failed: %w", value, err)
		}
		return v, nil
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("parse enum value %v to float64 failed: %w", value, err)
		}
		return v, nil
	case reflect.Bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("parse enum value %v to bool failed: %w", value, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("enum tag unsupported for field type: %v", fieldType)
	}
}

// WrapValues returns the activity input schema {"values": values}. Definitions
// are hoisted to the wrapper so $ref pointers keep resolving from the root.
func WrapValues(values *Schema) *Schema {
	inner := *values
	wrapper := &Schema{
		Type:                 "object",
		Properties:           map[string]*Schema{"values": &inner},
		Required:             []string{"values"},
		AdditionalProperties: false,
		Defs:                 inner.Defs,
	}
	inner.Defs = nil
	return wrapper
}

// JsonString converts the Schema to its JSON representation.
// If indent is true the output is formatted, otherwise it is compact.
func (s *Schema) JsonString(indent ...bool) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(indent) > 0 && indent[0] {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = json.Marshal(s)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return string(data), nil
}

// String returns the compact JSON representation of the schema.
func (s *Schema) String() string {
	out, err := s.JsonString()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return out
}

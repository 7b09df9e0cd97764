package tool

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// property is a single JSON Schema property.
type property struct {
	Type        string               `json:"type"`
	Description string               `json:"description,omitempty"`
	Enum        []string             `json:"enum,omitempty"`
	Default     any                  `json:"default,omitempty"`
	Items       *property            `json:"items,omitempty"`
	Properties  map[string]*property `json:"properties,omitempty"`
	Required    []string             `json:"required,omitempty"`
}

// objectSchema is the top-level schema of a tool's parameters.
type objectSchema struct {
	Type       string               `json:"type"`
	Properties map[string]*property `json:"properties"`
	Required   []string             `json:"required,omitempty"`
}

// SchemaFor generates a JSON schema for the parameters struct T.
//
// Supported struct tags:
//
//	json:"name"      property name (fields tagged "-" are skipped)
//	desc:"text"      description for the model
//	required:"true"  mark the property as required
//	enum:"a,b,c"     allowed string values
//	default:"value"  default applied when the argument is absent
func SchemaFor[T any]() (json.RawMessage, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("tool: schema: %s is not a struct", t)
	}

	props, required, err := structProperties(t)
	if err != nil {
		return nil, err
	}
	return json.Marshal(objectSchema{Type: "object", Properties: props, Required: required})
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() json.RawMessage {
	s, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return s
}

func structProperties(t reflect.Type) (map[string]*property, []string, error) {
	props := make(map[string]*property)
	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, ok := fieldName(field)
		if !ok {
			continue
		}

		prop, err := typeProperty(field.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("tool: schema: field %s: %w", field.Name, err)
		}
		prop.Description = field.Tag.Get("desc")
		if enum := field.Tag.Get("enum"); enum != "" {
			prop.Enum = strings.Split(enum, ",")
		}
		if def, ok := field.Tag.Lookup("default"); ok {
			v, err := parseDefault(field.Type, def)
			if err != nil {
				return nil, nil, fmt.Errorf("tool: schema: field %s: %w", field.Name, err)
			}
			prop.Default = v
		}
		if field.Tag.Get("required") == "true" {
			required = append(required, name)
		}
		props[name] = prop
	}
	return props, required, nil
}

func typeProperty(t reflect.Type) (*property, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return &property{Type: "string"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &property{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return &property{Type: "number"}, nil
	case reflect.Bool:
		return &property{Type: "boolean"}, nil
	case reflect.Slice, reflect.Array:
		items, err := typeProperty(t.Elem())
		if err != nil {
			return nil, err
		}
		return &property{Type: "array", Items: items}, nil
	case reflect.Struct:
		props, required, err := structProperties(t)
		if err != nil {
			return nil, err
		}
		return &property{Type: "object", Properties: props, Required: required}, nil
	case reflect.Map:
		return &property{Type: "object"}, nil
	default:
		return nil, fmt.Errorf("unsupported kind %s", t.Kind())
	}
}

func fieldName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		name = field.Name
	}
	return name, true
}

// parseDefault converts a default tag into a value of the field's JSON type.
func parseDefault(t reflect.Type, s string) (any, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return s, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.ParseInt(s, 10, 64)
	case reflect.Float32, reflect.Float64:
		return strconv.ParseFloat(s, 64)
	case reflect.Bool:
		return strconv.ParseBool(s)
	default:
		return nil, fmt.Errorf("default not supported for kind %s", t.Kind())
	}
}

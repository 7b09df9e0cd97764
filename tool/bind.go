package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	ai "github.com/spetersoncode/learnpath"
)

// Func creates a Registration with automatic schema generation from the typed handler.
// Panics if schema generation fails.
//
// Arguments are decoded into T after defaults from `default` tags are applied.
// Missing required fields and malformed JSON become a failed Result without
// calling fn.
//
// Example:
//
//	err := registry.RegisterAll(
//	    tool.Func("search", "Search videos", func(ctx context.Context, args SearchArgs) tool.Result {
//	        return tool.Ok(find(args.Query))
//	    }),
//	)
func Func[T any](name, description string, fn TypedHandler[T]) Registration {
	schema := MustSchemaFor[T]()
	handler := func(ctx context.Context, call ai.ToolCall) Result {
		args, err := Decode[T](call)
		if err != nil {
			return Fail(err.Error())
		}
		return fn(ctx, args)
	}
	return Registration{
		Tool: ai.Tool{
			Name:        name,
			Description: description,
			Parameters:  schema,
		},
		Handler: handler,
	}
}

// Decode unmarshals the call's arguments into T, applying `default` tags for
// absent fields and rejecting calls that omit a `required` field.
func Decode[T any](call ai.ToolCall) (T, error) {
	var args T

	raw := call.Arguments
	if raw == "" {
		raw = "{}"
	}
	var present map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &present); err != nil {
		return args, &ErrInvalidArguments{Name: call.Name, Err: err}
	}

	v := reflect.ValueOf(&args).Elem()
	if v.Kind() == reflect.Struct {
		if err := prepareArgs(v, present); err != nil {
			return args, &ErrInvalidArguments{Name: call.Name, Err: err}
		}
	}

	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return args, &ErrInvalidArguments{Name: call.Name, Err: err}
	}
	return args, nil
}

// prepareArgs fills defaults and checks required fields against the keys
// present in the raw arguments.
func prepareArgs(v reflect.Value, present map[string]json.RawMessage) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, ok := fieldName(field)
		if !ok {
			continue
		}

		value, has := present[name]
		if has && string(value) != "null" {
			continue
		}
		if field.Tag.Get("required") == "true" {
			return fmt.Errorf("missing required field %q", name)
		}
		def, ok := field.Tag.Lookup("default")
		if !ok {
			continue
		}
		parsed, err := parseDefault(field.Type, def)
		if err != nil {
			return err
		}
		fv := v.Field(i)
		if fv.Kind() == reflect.Ptr {
			fv.Set(reflect.New(field.Type.Elem()))
			fv = fv.Elem()
		}
		fv.Set(reflect.ValueOf(parsed).Convert(fv.Type()))
	}
	return nil
}

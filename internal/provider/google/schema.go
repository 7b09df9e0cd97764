package google

import (
	"encoding/json"

	"google.golang.org/genai"
)

// ConvertJSONSchemaToGenaiSchema converts a tool's JSON Schema to a genai
// Schema. Remote MCP tools publish schemas with features Gemini spells
// differently: type arrays such as ["string","null"] become a nullable type,
// and numeric or length bounds map to genai's pointer fields. Keywords genai
// has no field for (additionalProperties, $schema) are dropped.
func ConvertJSONSchemaToGenaiSchema(schemaJSON json.RawMessage) *genai.Schema {
	if len(schemaJSON) == 0 {
		return nil
	}

	var schema map[string]any
	if err := json.Unmarshal(schemaJSON, &schema); err != nil {
		return nil
	}

	return convertSchemaObject(schema)
}

func convertSchemaObject(schema map[string]any) *genai.Schema {
	if schema == nil {
		return nil
	}

	result := &genai.Schema{}

	switch t := schema["type"].(type) {
	case string:
		result.Type = genaiType(t)
	case []any:
		for _, v := range t {
			name, _ := v.(string)
			if name == "null" {
				result.Nullable = genai.Ptr(true)
				continue
			}
			if result.Type == "" {
				result.Type = genaiType(name)
			}
		}
	}
	if nullable, ok := schema["nullable"].(bool); ok && nullable {
		result.Nullable = genai.Ptr(true)
	}

	result.Title, _ = schema["title"].(string)
	result.Description, _ = schema["description"].(string)
	result.Format, _ = schema["format"].(string)
	result.Pattern, _ = schema["pattern"].(string)
	if def, ok := schema["default"]; ok {
		result.Default = def
	}

	if enumVal, ok := schema["enum"].([]any); ok {
		for _, e := range enumVal {
			if s, ok := e.(string); ok {
				result.Enum = append(result.Enum, s)
			}
		}
	}

	result.Minimum = floatField(schema, "minimum")
	result.Maximum = floatField(schema, "maximum")
	result.MinLength = intField(schema, "minLength")
	result.MaxLength = intField(schema, "maxLength")
	result.MinItems = intField(schema, "minItems")
	result.MaxItems = intField(schema, "maxItems")

	if props, ok := schema["properties"].(map[string]any); ok {
		result.Properties = make(map[string]*genai.Schema, len(props))
		for name, propSchema := range props {
			if propMap, ok := propSchema.(map[string]any); ok {
				result.Properties[name] = convertSchemaObject(propMap)
			}
		}
	}

	if required, ok := schema["required"].([]any); ok {
		for _, r := range required {
			if s, ok := r.(string); ok {
				result.Required = append(result.Required, s)
			}
		}
	}

	if items, ok := schema["items"].(map[string]any); ok {
		result.Items = convertSchemaObject(items)
	}

	for _, key := range []string{"anyOf", "oneOf"} {
		alts, ok := schema[key].([]any)
		if !ok {
			continue
		}
		for _, alt := range alts {
			m, ok := alt.(map[string]any)
			if !ok {
				continue
			}
			// {"type":"null"} alternatives only mark the field optional.
			if m["type"] == "null" {
				result.Nullable = genai.Ptr(true)
				continue
			}
			result.AnyOf = append(result.AnyOf, convertSchemaObject(m))
		}
	}
	// A single remaining alternative is the field's real schema.
	if len(result.AnyOf) == 1 && result.Type == "" {
		only := result.AnyOf[0]
		only.Nullable = result.Nullable
		if only.Description == "" {
			only.Description = result.Description
		}
		return only
	}

	return result
}

func genaiType(name string) genai.Type {
	switch name {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	}
	return ""
}

func floatField(schema map[string]any, key string) *float64 {
	if v, ok := schema[key].(float64); ok {
		return &v
	}
	return nil
}

func intField(schema map[string]any, key string) *int64 {
	if v, ok := schema[key].(float64); ok {
		n := int64(v)
		return &n
	}
	return nil
}

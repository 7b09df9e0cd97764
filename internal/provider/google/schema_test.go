package google

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestConvertJSONSchemaToGenaiSchema(t *testing.T) {
	t.Run("search tool schema", func(t *testing.T) {
		s := ConvertJSONSchemaToGenaiSchema(json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Search terms"},
				"max_results": {"type": "integer", "default": 5, "minimum": 1, "maximum": 50}
			},
			"required": ["query"]
		}`))
		require.NotNil(t, s)
		assert.Equal(t, genai.TypeObject, s.Type)
		assert.Equal(t, []string{"query"}, s.Required)
		assert.Equal(t, "Search terms", s.Properties["query"].Description)

		limit := s.Properties["max_results"]
		assert.Equal(t, genai.TypeInteger, limit.Type)
		assert.Equal(t, float64(5), limit.Default)
		require.NotNil(t, limit.Minimum)
		require.NotNil(t, limit.Maximum)
		assert.Equal(t, 1.0, *limit.Minimum)
		assert.Equal(t, 50.0, *limit.Maximum)
	})

	t.Run("type arrays with null become nullable", func(t *testing.T) {
		s := ConvertJSONSchemaToGenaiSchema(json.RawMessage(`{
			"type": "object",
			"properties": {"parent_id": {"type": ["string", "null"], "format": "uuid"}}
		}`))
		p := s.Properties["parent_id"]
		assert.Equal(t, genai.TypeString, p.Type)
		assert.Equal(t, "uuid", p.Format)
		require.NotNil(t, p.Nullable)
		assert.True(t, *p.Nullable)
	})

	t.Run("anyOf with a null branch collapses to the other branch", func(t *testing.T) {
		s := ConvertJSONSchemaToGenaiSchema(json.RawMessage(`{
			"description": "Page title",
			"anyOf": [{"type": "string", "maxLength": 200}, {"type": "null"}]
		}`))
		assert.Equal(t, genai.TypeString, s.Type)
		assert.Equal(t, "Page title", s.Description)
		require.NotNil(t, s.MaxLength)
		assert.Equal(t, int64(200), *s.MaxLength)
		require.NotNil(t, s.Nullable)
		assert.True(t, *s.Nullable)
		assert.Empty(t, s.AnyOf)
	})

	t.Run("real alternatives are kept", func(t *testing.T) {
		s := ConvertJSONSchemaToGenaiSchema(json.RawMessage(`{
			"oneOf": [{"type": "string"}, {"type": "array", "items": {"type": "string"}, "minItems": 1}]
		}`))
		require.Len(t, s.AnyOf, 2)
		assert.Equal(t, genai.TypeArray, s.AnyOf[1].Type)
		assert.Equal(t, genai.TypeString, s.AnyOf[1].Items.Type)
		require.NotNil(t, s.AnyOf[1].MinItems)
		assert.Equal(t, int64(1), *s.AnyOf[1].MinItems)
	})

	t.Run("empty or invalid input", func(t *testing.T) {
		assert.Nil(t, ConvertJSONSchemaToGenaiSchema(nil))
		assert.Nil(t, ConvertJSONSchemaToGenaiSchema(json.RawMessage(`{not json`)))
	})
}

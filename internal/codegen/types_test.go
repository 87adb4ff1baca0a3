package codegen

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inline(s *openapi3.Schema) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("", s)
}

func TestFieldTypeFromSchemaRef_Scalars(t *testing.T) {
	cases := []struct {
		name   string
		schema *openapi3.Schema
		want   FieldKind
	}{
		{"bool", &openapi3.Schema{Type: "boolean"}, KindBool},
		{"int16", &openapi3.Schema{Type: "integer", Format: "int16"}, KindInt16},
		{"uint16", &openapi3.Schema{Type: "integer", Format: "uint16"}, KindUInt16},
		{"int32", &openapi3.Schema{Type: "integer", Format: "int32"}, KindInt32},
		{"int", &openapi3.Schema{Type: "integer", Format: "int"}, KindInt64},
		{"int64", &openapi3.Schema{Type: "integer", Format: "int64"}, KindInt64},
		{"uint", &openapi3.Schema{Type: "integer", Format: "uint"}, KindUInt64},
		{"uint64", &openapi3.Schema{Type: "integer", Format: "uint64"}, KindUInt64},
		{"string", &openapi3.Schema{Type: "string"}, KindString},
		{"date-time", &openapi3.Schema{Type: "string", Format: "date-time"}, KindDateTime},
		{"uri", &openapi3.Schema{Type: "string", Format: "uri"}, KindUri},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ft, err := fieldTypeFromSchemaRef(inline(tc.schema))
			require.NoError(t, err)
			assert.Equal(t, tc.want, ft.Kind)
		})
	}
}

func TestFieldTypeFromSchemaRef_Unsupported(t *testing.T) {
	cases := []struct {
		name   string
		schema *openapi3.Schema
	}{
		{"integer without format", &openapi3.Schema{Type: "integer"}},
		{"float format", &openapi3.Schema{Type: "number", Format: "float"}},
		{"uuid string", &openapi3.Schema{Type: "string", Format: "uuid"}},
		{"type-less", &openapi3.Schema{}},
		{"array without items", &openapi3.Schema{Type: "array"}},
		{"object without additionalProperties", &openapi3.Schema{Type: "object"}},
		{"additionalProperties false", &openapi3.Schema{
			Type:                        "object",
			AdditionalPropertiesAllowed: openapi3.BoolPtr(false),
		}},
		{"object with properties", &openapi3.Schema{
			Type:                        "object",
			AdditionalPropertiesAllowed: openapi3.BoolPtr(true),
			Properties:                  openapi3.Schemas{"a": inline(&openapi3.Schema{Type: "string"})},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fieldTypeFromSchemaRef(inline(tc.schema))
			assert.Error(t, err)
		})
	}
}

func TestFieldTypeFromSchemaRef_Containers(t *testing.T) {
	list, err := fieldTypeFromSchemaRef(inline(&openapi3.Schema{
		Type:  "array",
		Items: inline(&openapi3.Schema{Type: "string"}),
	}))
	require.NoError(t, err)
	assert.Equal(t, KindList, list.Kind)
	assert.Equal(t, KindString, list.Elem.Kind)

	set, err := fieldTypeFromSchemaRef(inline(&openapi3.Schema{
		Type:        "array",
		UniqueItems: true,
		Items:       inline(&openapi3.Schema{Type: "string"}),
	}))
	require.NoError(t, err)
	assert.Equal(t, KindSet, set.Kind)
	assert.Equal(t, KindString, set.Elem.Kind)

	jsonObject, err := fieldTypeFromSchemaRef(inline(&openapi3.Schema{
		Type:                        "object",
		AdditionalPropertiesAllowed: openapi3.BoolPtr(true),
	}))
	require.NoError(t, err)
	assert.Equal(t, KindJsonObject, jsonObject.Kind)

	m, err := fieldTypeFromSchemaRef(inline(&openapi3.Schema{
		Type:                 "object",
		AdditionalProperties: inline(&openapi3.Schema{Type: "integer", Format: "int64"}),
	}))
	require.NoError(t, err)
	assert.Equal(t, KindMap, m.Kind)
	assert.Equal(t, KindInt64, m.Elem.Kind)

	ref, err := fieldTypeFromSchemaRef(openapi3.NewSchemaRef("#/components/schemas/Foo", nil))
	require.NoError(t, err)
	assert.Equal(t, KindSchemaRef, ref.Kind)
	assert.Equal(t, "Foo", ref.Ref)
}

func TestTypeFromSchema(t *testing.T) {
	t.Run("struct round-trip", func(t *testing.T) {
		typ, err := typeFromSchema("Foo", &openapi3.Schema{
			Type:        "object",
			Description: "A foo.",
			Required:    []string{"name"},
			Properties: openapi3.Schemas{
				"name": inline(&openapi3.Schema{Type: "string", Description: "display name"}),
				"size": inline(&openapi3.Schema{Type: "integer", Format: "int32", Default: float64(1)}),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "Foo", typ.Name)
		assert.Equal(t, "A foo.", typ.Description)
		assert.False(t, typ.Deprecated)

		data, ok := typ.Data.(StructData)
		require.True(t, ok)
		require.Len(t, data.Fields, 2)

		// fields are sorted by name
		name, size := data.Fields[0], data.Fields[1]
		assert.Equal(t, "name", name.Name)
		assert.True(t, name.Required)
		assert.Equal(t, KindString, name.Type.Kind)
		assert.Equal(t, "display name", name.Description)
		assert.Equal(t, "size", size.Name)
		assert.False(t, size.Required)
		assert.Equal(t, KindInt32, size.Type.Kind)
		assert.Equal(t, float64(1), size.Default)
	})

	t.Run("enum field fails the whole type", func(t *testing.T) {
		_, err := typeFromSchema("Foo", &openapi3.Schema{
			Type: "object",
			Properties: openapi3.Schemas{
				"kind": inline(&openapi3.Schema{Type: "string", Enum: []any{"a", "b"}}),
			},
		})
		assert.Error(t, err)
	})

	t.Run("map-style constraints are rejected", func(t *testing.T) {
		for name, schema := range map[string]*openapi3.Schema{
			"additionalProperties schema": {
				Type:                 "object",
				AdditionalProperties: inline(&openapi3.Schema{Type: "string"}),
			},
			"additionalProperties bool": {
				Type:                        "object",
				AdditionalPropertiesAllowed: openapi3.BoolPtr(true),
			},
			"maxProperties": {
				Type:     "object",
				MaxProps: openapi3.Uint64Ptr(3),
			},
			"non-object": {Type: "string"},
			"no type":    {},
		} {
			_, err := typeFromSchema("Foo", schema)
			assert.Error(t, err, name)
		}
	})
}

func TestResolveTypes(t *testing.T) {
	doc := loadDoc(t, sampleSpec)
	diag := discardDiag()
	api, err := BuildApi(doc.Paths, diag)
	require.NoError(t, err)

	types := ResolveTypes(api, doc.Components.Schemas, diag)

	assert.Equal(t, []string{"Foo", "FooIn"}, types.Names())
	assert.NotContains(t, types, "Unused", "unreferenced schemas must be tree-shaken")

	foo := types["Foo"]
	require.NotNil(t, foo)
	data, ok := foo.Data.(StructData)
	require.True(t, ok)
	require.Len(t, data.Fields, 1)
	assert.Equal(t, "name", data.Fields[0].Name)
	assert.True(t, data.Fields[0].Required)
	assert.Equal(t, KindString, data.Fields[0].Type.Kind)
}

func TestResolveTypes_DanglingReference(t *testing.T) {
	api := &Api{resources: map[string]*Resource{
		"foo": {Name: "foo", Operations: []*Operation{
			{Name: "get", ResponseBodySchemaName: "Missing"},
		}},
	}}
	diag := discardDiag()
	types := ResolveTypes(api, openapi3.Schemas{}, diag)
	assert.Empty(t, types)
	assert.Equal(t, 1, diag.Count(SeverityWarn))
}

func TestResolveTypes_FailedTypeIsSkipped(t *testing.T) {
	api := &Api{resources: map[string]*Resource{
		"foo": {Name: "foo", Operations: []*Operation{
			{Name: "get", ResponseBodySchemaName: "Bad"},
		}},
	}}
	diag := discardDiag()
	types := ResolveTypes(api, openapi3.Schemas{
		"Bad": inline(&openapi3.Schema{Type: "string"}),
	}, diag)
	assert.Empty(t, types)
	assert.Equal(t, 1, diag.Count(SeverityError))
}

package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type projector struct {
	lang string
	name func(*FieldType) (string, error)
}

func projectors() []projector {
	return []projector{
		{"csharp", (*FieldType).CSharpName},
		{"go", (*FieldType).GoName},
		{"kotlin", (*FieldType).KotlinName},
		{"js", (*FieldType).JSName},
		{"rust", (*FieldType).RustName},
	}
}

func TestTypeNames(t *testing.T) {
	str := &FieldType{Kind: KindString}
	cases := []struct {
		name string
		ft   *FieldType
		// expected per language; "" means the projection must fail
		csharp, golang, kotlin, js, rust string
	}{
		{"bool", &FieldType{Kind: KindBool}, "bool", "bool", "Boolean", "boolean", "bool"},
		{"int16", &FieldType{Kind: KindInt16}, "", "", "", "number", "i16"},
		{"uint16", &FieldType{Kind: KindUInt16}, "", "", "", "number", "u16"},
		{"int32", &FieldType{Kind: KindInt32}, "int", "int32", "Int", "number", "i32"},
		{"int64", &FieldType{Kind: KindInt64}, "int", "int32", "Int", "number", "i32"},
		{"uint64", &FieldType{Kind: KindUInt64}, "int", "int32", "Int", "number", "i32"},
		{"string", str, "string", "string", "String", "string", "String"},
		{"datetime", &FieldType{Kind: KindDateTime}, "DateTime", "time.Time", "OffsetDateTime", "Date | null", "DateTime<Utc>"},
		{"uri", &FieldType{Kind: KindUri}, "", "", "", "", "String"},
		{"json object", &FieldType{Kind: KindJsonObject}, "", "", "", "", "serde_json::Value"},
		{"list", &FieldType{Kind: KindList, Elem: str}, "List<string>", "[]string", "List<String>", "string[]", "Vec<String>"},
		{"map", &FieldType{Kind: KindMap, Elem: str}, "", "", "", "", "std::collections::HashMap<String, String>"},
		{"schema ref", &FieldType{Kind: KindSchemaRef, Ref: "MessageOut"}, "MessageOut", "MessageOut", "MessageOut", "MessageOut", "MessageOut"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expected := map[string]string{
				"csharp": tc.csharp,
				"go":     tc.golang,
				"kotlin": tc.kotlin,
				"js":     tc.js,
				"rust":   tc.rust,
			}
			for _, p := range projectors() {
				got, err := p.name(tc.ft)
				if want := expected[p.lang]; want == "" {
					assert.Error(t, err, p.lang)
				} else {
					require.NoError(t, err, p.lang)
					assert.Equal(t, want, got, p.lang)
				}
			}
		})
	}
}

// Sets intentionally project exactly like lists; no target uses a
// uniqueness-preserving container yet.
func TestTypeNames_SetMatchesList(t *testing.T) {
	inner := &FieldType{Kind: KindInt64}
	list := &FieldType{Kind: KindList, Elem: inner}
	set := &FieldType{Kind: KindSet, Elem: inner}

	for _, p := range projectors() {
		listName, listErr := p.name(list)
		setName, setErr := p.name(set)
		require.NoError(t, listErr, p.lang)
		require.NoError(t, setErr, p.lang)
		assert.Equal(t, listName, setName, p.lang)
	}
}

// An unimplemented inner type fails the whole container projection.
func TestTypeNames_ErrorPropagatesThroughContainers(t *testing.T) {
	list := &FieldType{Kind: KindList, Elem: &FieldType{Kind: KindJsonObject}}
	for _, p := range projectors() {
		if p.lang == "rust" {
			continue
		}
		_, err := p.name(list)
		assert.Error(t, err, p.lang)
	}
}

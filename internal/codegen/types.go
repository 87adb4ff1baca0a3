package codegen

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// Types holds the named types referenced by the Api, keyed by schema name.
// It is an intentional tree-shaking of the document's component table:
// schemas no operation body refers to never show up here.
type Types map[string]*Type

// Names returns the type names in sorted order.
func (t Types) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Type is one named type extracted from a component schema.
type Type struct {
	Name        string
	Description string
	Deprecated  bool
	Data        TypeData
}

// TypeData is the closed set of type payloads.
type TypeData interface {
	isTypeData()
}

// StructData is a named record type with an ordered field list. The only
// payload extraction produces today.
type StructData struct {
	Fields []Field
}

// EnumData is reserved for schemas that will eventually map to tagged
// unions. Extraction never produces it yet.
type EnumData struct {
	Variants []Variant
}

func (StructData) isTypeData() {}
func (EnumData) isTypeData()   {}

// Variant is one alternative of an EnumData type.
type Variant struct {
	Fields []Field
}

// Field is a single typed member of a struct type.
type Field struct {
	Name string
	Type *FieldType
	// Default is the schema's default value, passed through as an opaque
	// JSON literal.
	Default     any
	Description string
	Required    bool
	Deprecated  bool
}

// FieldKind enumerates the semantic data kinds the compiler understands.
type FieldKind int

const (
	KindBool FieldKind = iota
	KindInt16
	KindUInt16
	KindInt32
	KindInt64
	KindUInt64
	KindString
	KindDateTime
	KindUri
	KindJsonObject
	KindList
	KindSet
	KindMap
	KindSchemaRef
)

func (k FieldKind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindInt16:
		return "Int16"
	case KindUInt16:
		return "UInt16"
	case KindInt32:
		return "Int32"
	case KindInt64:
		return "Int64"
	case KindUInt64:
		return "UInt64"
	case KindString:
		return "String"
	case KindDateTime:
		return "DateTime"
	case KindUri:
		return "Uri"
	case KindJsonObject:
		return "JsonObject"
	case KindList:
		return "List"
	case KindSet:
		return "Set"
	case KindMap:
		return "Map"
	case KindSchemaRef:
		return "SchemaRef"
	default:
		return "unknown"
	}
}

// FieldType is the compiler's closed type algebra: openapi `type` + `format`
// + `$ref` collapsed into a single immutable value.
type FieldType struct {
	Kind FieldKind
	// Elem is the list/set element type or the map value type. Map keys are
	// always strings in JSON schemas.
	Elem *FieldType
	// Ref is the referenced schema name for KindSchemaRef.
	Ref string
}

// fieldTypeFromSchemaRef classifies a schema node into a FieldType. All
// unsupported shapes come back as descriptive errors; the caller decides
// whether that skips an operation or fails a named type.
func fieldTypeFromSchemaRef(ref *openapi3.SchemaRef) (*FieldType, error) {
	if ref == nil {
		return nil, fmt.Errorf("missing schema")
	}
	if name := componentSchemaName(ref.Ref); name != "" {
		return &FieldType{Kind: KindSchemaRef, Ref: name}, nil
	}
	if ref.Ref != "" {
		return nil, fmt.Errorf("unsupported reference %q", ref.Ref)
	}
	s := ref.Value
	if s == nil {
		return nil, fmt.Errorf("missing schema")
	}

	switch s.Type {
	case "boolean":
		return &FieldType{Kind: KindBool}, nil
	case "integer":
		switch s.Format {
		case "int16":
			return &FieldType{Kind: KindInt16}, nil
		case "uint16":
			return &FieldType{Kind: KindUInt16}, nil
		case "int32":
			return &FieldType{Kind: KindInt32}, nil
		case "int", "int64":
			return &FieldType{Kind: KindInt64}, nil
		case "uint", "uint64":
			return &FieldType{Kind: KindUInt64}, nil
		default:
			return nil, fmt.Errorf("unsupported integer format %q", s.Format)
		}
	case "string":
		switch s.Format {
		case "":
			return &FieldType{Kind: KindString}, nil
		case "date-time":
			return &FieldType{Kind: KindDateTime}, nil
		case "uri":
			return &FieldType{Kind: KindUri}, nil
		default:
			return nil, fmt.Errorf("unsupported string format %q", s.Format)
		}
	case "array":
		if s.Items == nil {
			return nil, fmt.Errorf("array type must have an items schema")
		}
		inner, err := fieldTypeFromSchemaRef(s.Items)
		if err != nil {
			return nil, err
		}
		if s.UniqueItems {
			return &FieldType{Kind: KindSet, Elem: inner}, nil
		}
		return &FieldType{Kind: KindList, Elem: inner}, nil
	case "object":
		if len(s.Properties) > 0 {
			return nil, fmt.Errorf("unsupported: properties on object-valued field")
		}
		if len(s.Required) > 0 {
			return nil, fmt.Errorf("unsupported: required on object-valued field")
		}
		if s.MinProps > 0 {
			return nil, fmt.Errorf("unsupported: minProperties")
		}
		if s.MaxProps != nil {
			return nil, fmt.Errorf("unsupported: maxProperties")
		}
		if s.AdditionalProperties != nil {
			value, err := fieldTypeFromSchemaRef(s.AdditionalProperties)
			if err != nil {
				return nil, err
			}
			return &FieldType{Kind: KindMap, Elem: value}, nil
		}
		if s.AdditionalPropertiesAllowed == nil {
			return nil, fmt.Errorf("unsupported: object-valued field without additionalProperties")
		}
		if !*s.AdditionalPropertiesAllowed {
			return nil, fmt.Errorf("unsupported: additionalProperties: false")
		}
		return &FieldType{Kind: KindJsonObject}, nil
	case "":
		return nil, fmt.Errorf("unsupported type-less schema")
	default:
		return nil, fmt.Errorf("unsupported type %q", s.Type)
	}
}

// typeFromSchema converts one named component schema into a struct type.
// Only plain object schemas made of `properties` plus `required` are
// accepted; map-style constraints belong on fields, not on named types.
func typeFromSchema(name string, s *openapi3.Schema) (*Type, error) {
	switch s.Type {
	case "object":
	case "":
		return nil, fmt.Errorf("unsupported: no type")
	default:
		return nil, fmt.Errorf("unsupported type %q", s.Type)
	}
	if s.AdditionalProperties != nil || s.AdditionalPropertiesAllowed != nil {
		return nil, fmt.Errorf("unsupported: additionalProperties on named type")
	}
	if s.MinProps > 0 {
		return nil, fmt.Errorf("unsupported: minProperties")
	}
	if s.MaxProps != nil {
		return nil, fmt.Errorf("unsupported: maxProperties")
	}

	required := make(map[string]bool, len(s.Required))
	for _, field := range s.Required {
		required[field] = true
	}

	propNames := make([]string, 0, len(s.Properties))
	for propName := range s.Properties {
		propNames = append(propNames, propName)
	}
	sort.Strings(propNames)

	fields := make([]Field, 0, len(propNames))
	for _, propName := range propNames {
		field, err := fieldFromSchemaRef(propName, s.Properties[propName], required[propName])
		if err != nil {
			return nil, fmt.Errorf("unsupported field %s: %w", propName, err)
		}
		fields = append(fields, field)
	}

	return &Type{
		Name:        name,
		Description: s.Description,
		Deprecated:  s.Deprecated,
		Data:        StructData{Fields: fields},
	}, nil
}

func fieldFromSchemaRef(name string, ref *openapi3.SchemaRef, required bool) (Field, error) {
	if ref == nil {
		return Field{}, fmt.Errorf("missing schema")
	}
	if s := ref.Value; s != nil && ref.Ref == "" && len(s.Enum) > 0 {
		return Field{}, fmt.Errorf("unsupported enum values")
	}
	ft, err := fieldTypeFromSchemaRef(ref)
	if err != nil {
		return Field{}, err
	}
	field := Field{Name: name, Type: ft, Required: required}
	if s := ref.Value; s != nil && ref.Ref == "" {
		field.Default = s.Default
		field.Description = s.Description
		field.Deprecated = s.Deprecated
	}
	return field, nil
}

// ResolveTypes builds the named-type set for every component schema the Api
// references as a request or response body. The raw schema table is only
// read, never modified; two phases (collect names, then copy) replace the
// remove-as-claim pattern. Missing or failed schemas produce diagnostics
// and a dangling name, not a failed run.
func ResolveTypes(api *Api, schemas openapi3.Schemas, diag *Diagnostics) Types {
	types := make(Types)
	for _, name := range api.ReferencedComponents() {
		schemaName := slog.String("schema_name", name)
		ref := schemas[name]
		if ref == nil {
			diag.Warn("schema not found", schemaName)
			continue
		}
		if ref.Value == nil {
			diag.Warn("referenced schema has no content", schemaName)
			continue
		}
		typ, err := typeFromSchema(name, ref.Value)
		if err != nil {
			diag.Error("failed to extract named type", schemaName, slog.Any("error", err))
			continue
		}
		types[name] = typ
	}
	return types
}

package codegen

import "fmt"

// Per-language type-name projection.
//
// The mappings below reproduce the type vocabulary of the already-shipped
// SDKs, including their historical collapses (all integer widths projecting
// to one 32-bit type, Set projecting like List). Branches no shipped SDK
// ever emitted return an error so the gap surfaces at generation time
// instead of silently projecting a different type.

// CSharpName returns the C# type name for t.
func (t *FieldType) CSharpName() (string, error) {
	switch t.Kind {
	case KindBool:
		return "bool", nil
	case KindInt32, KindInt64, KindUInt64:
		return "int", nil
	case KindString:
		return "string", nil
	case KindDateTime:
		return "DateTime", nil
	case KindList, KindSet:
		inner, err := t.Elem.CSharpName()
		if err != nil {
			return "", err
		}
		return "List<" + inner + ">", nil
	case KindSchemaRef:
		return t.Ref, nil
	case KindInt16, KindUInt16, KindUri, KindJsonObject, KindMap:
		return "", fmt.Errorf("%s has no C# representation yet", t.Kind)
	default:
		return "", fmt.Errorf("unknown field kind %d", t.Kind)
	}
}

// GoName returns the Go type name for t.
func (t *FieldType) GoName() (string, error) {
	switch t.Kind {
	case KindBool:
		return "bool", nil
	case KindInt32, KindInt64, KindUInt64:
		return "int32", nil
	case KindString:
		return "string", nil
	case KindDateTime:
		return "time.Time", nil
	case KindList, KindSet:
		inner, err := t.Elem.GoName()
		if err != nil {
			return "", err
		}
		return "[]" + inner, nil
	case KindSchemaRef:
		return t.Ref, nil
	case KindInt16, KindUInt16, KindUri, KindJsonObject, KindMap:
		return "", fmt.Errorf("%s has no Go representation yet", t.Kind)
	default:
		return "", fmt.Errorf("unknown field kind %d", t.Kind)
	}
}

// KotlinName returns the Kotlin type name for t.
func (t *FieldType) KotlinName() (string, error) {
	switch t.Kind {
	case KindBool:
		return "Boolean", nil
	case KindInt32, KindInt64, KindUInt64:
		return "Int", nil
	case KindString:
		return "String", nil
	case KindDateTime:
		return "OffsetDateTime", nil
	case KindList, KindSet:
		inner, err := t.Elem.KotlinName()
		if err != nil {
			return "", err
		}
		return "List<" + inner + ">", nil
	case KindSchemaRef:
		return t.Ref, nil
	case KindInt16, KindUInt16, KindUri, KindJsonObject, KindMap:
		return "", fmt.Errorf("%s has no Kotlin representation yet", t.Kind)
	default:
		return "", fmt.Errorf("unknown field kind %d", t.Kind)
	}
}

// JSName returns the TypeScript type name for t.
func (t *FieldType) JSName() (string, error) {
	switch t.Kind {
	case KindBool:
		return "boolean", nil
	case KindInt16, KindUInt16, KindInt32, KindInt64, KindUInt64:
		return "number", nil
	case KindString:
		return "string", nil
	case KindDateTime:
		return "Date | null", nil
	case KindList, KindSet:
		inner, err := t.Elem.JSName()
		if err != nil {
			return "", err
		}
		return inner + "[]", nil
	case KindSchemaRef:
		return t.Ref, nil
	case KindUri, KindJsonObject, KindMap:
		return "", fmt.Errorf("%s has no JS representation yet", t.Kind)
	default:
		return "", fmt.Errorf("unknown field kind %d", t.Kind)
	}
}

// RustName returns the Rust type name for t.
func (t *FieldType) RustName() (string, error) {
	switch t.Kind {
	case KindBool:
		return "bool", nil
	case KindInt16:
		return "i16", nil
	case KindUInt16:
		return "u16", nil
	case KindInt32, KindInt64, KindUInt64:
		return "i32", nil
	case KindString, KindUri:
		return "String", nil
	case KindDateTime:
		return "DateTime<Utc>", nil
	case KindJsonObject:
		return "serde_json::Value", nil
	case KindList, KindSet:
		inner, err := t.Elem.RustName()
		if err != nil {
			return "", err
		}
		return "Vec<" + inner + ">", nil
	case KindMap:
		value, err := t.Elem.RustName()
		if err != nil {
			return "", err
		}
		return "std::collections::HashMap<String, " + value + ">", nil
	case KindSchemaRef:
		return t.Ref, nil
	default:
		return "", fmt.Errorf("unknown field kind %d", t.Kind)
	}
}

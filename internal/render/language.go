package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apiforge/sdkgen/internal/codegen"
)

// language binds a target name to its file extension, its type-name
// projection, and its identifier conventions.
type language struct {
	name      string
	ext       string
	typeName  func(t *codegen.FieldType) (string, error)
	ident     func(string) string // field identifiers
	param     func(string) string // parameter identifiers
	method    func(string) string // operation method names
	modelTmpl string
	apiTmpl   string
}

var languages = map[string]language{
	"csharp": {
		name:      "csharp",
		ext:       ".cs",
		typeName:  (*codegen.FieldType).CSharpName,
		ident:     toPascalCase,
		param:     toCamelCase,
		method:    toPascalCase,
		modelTmpl: "csharp_model.tmpl",
		apiTmpl:   "csharp_api.tmpl",
	},
	"go": {
		name:      "go",
		ext:       ".go",
		typeName:  (*codegen.FieldType).GoName,
		ident:     toPascalCase,
		param:     toCamelCase,
		method:    toPascalCase,
		modelTmpl: "go_model.tmpl",
		apiTmpl:   "go_api.tmpl",
	},
	"kotlin": {
		name:      "kotlin",
		ext:       ".kt",
		typeName:  (*codegen.FieldType).KotlinName,
		ident:     toCamelCase,
		param:     toCamelCase,
		method:    toCamelCase,
		modelTmpl: "kotlin_model.tmpl",
		apiTmpl:   "kotlin_api.tmpl",
	},
	"js": {
		name:      "js",
		ext:       ".ts",
		typeName:  (*codegen.FieldType).JSName,
		ident:     toCamelCase,
		param:     toCamelCase,
		method:    toCamelCase,
		modelTmpl: "js_model.tmpl",
		apiTmpl:   "js_api.tmpl",
	},
	"rust": {
		name:      "rust",
		ext:       ".rs",
		typeName:  (*codegen.FieldType).RustName,
		ident:     toSnakeCase,
		param:     toSnakeCase,
		method:    toSnakeCase,
		modelTmpl: "rust_model.tmpl",
		apiTmpl:   "rust_api.tmpl",
	},
}

// Languages lists the supported target names in stable order.
func Languages() []string {
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// modelData is the input to a per-type model template. Type strings are
// fully resolved before template execution; templates only print.
type modelData struct {
	Package   string
	Type      typeDef
	NeedsTime bool
	NeedsJSON bool
	Refs      []refImport
}

type typeDef struct {
	Name        string
	Description string
	Deprecated  bool
	Fields      []fieldDef
}

type fieldDef struct {
	Wire        string // property name on the wire
	Ident       string // identifier in the target language
	Type        string
	Description string
	Required    bool
	Deprecated  bool
}

// refImport names a sibling model referenced by a field.
type refImport struct {
	Name string
	File string // snake_case file stem, no extension
}

// typeUsage accumulates what a type's field tree pulls in.
type typeUsage struct {
	dateTime bool
	json     bool
	refs     map[string]bool
}

func (u *typeUsage) walk(t *codegen.FieldType) {
	if t == nil {
		return
	}
	switch t.Kind {
	case codegen.KindDateTime:
		u.dateTime = true
	case codegen.KindJsonObject:
		u.json = true
	case codegen.KindSchemaRef:
		u.refs[t.Ref] = true
	case codegen.KindList, codegen.KindSet, codegen.KindMap:
		u.walk(t.Elem)
	}
}

func buildModelData(lang language, pkg string, t *codegen.Type) (*modelData, error) {
	sd, ok := t.Data.(codegen.StructData)
	if !ok {
		return nil, fmt.Errorf("type %s has no renderable data", t.Name)
	}

	usage := typeUsage{refs: map[string]bool{}}
	fields := make([]fieldDef, 0, len(sd.Fields))
	for _, f := range sd.Fields {
		typeStr, err := lang.typeName(f.Type)
		if err != nil {
			return nil, fmt.Errorf("type %s, field %s: %w", t.Name, f.Name, err)
		}
		usage.walk(f.Type)
		fields = append(fields, fieldDef{
			Wire:        f.Name,
			Ident:       lang.ident(f.Name),
			Type:        typeStr,
			Description: f.Description,
			Required:    f.Required,
			Deprecated:  f.Deprecated,
		})
	}

	refNames := make([]string, 0, len(usage.refs))
	for name := range usage.refs {
		refNames = append(refNames, name)
	}
	sort.Strings(refNames)
	refs := make([]refImport, 0, len(refNames))
	for _, name := range refNames {
		refs = append(refs, refImport{Name: name, File: toSnakeCase(name)})
	}

	return &modelData{
		Package: pkg,
		Type: typeDef{
			Name:        t.Name,
			Description: t.Description,
			Deprecated:  t.Deprecated,
			Fields:      fields,
		},
		NeedsTime: usage.dateTime,
		NeedsJSON: usage.json,
		Refs:      refs,
	}, nil
}

// apiData is the input to a per-resource template.
type apiData struct {
	Package  string
	Resource string // type/trait name, PascalCase
	RawName  string
	Module   string // import root for targets that need one (Go)
	Ops      []opDef
	Refs     []refImport // body models referenced by the operations
}

// HasModels reports whether any operation carries a body model.
func (d *apiData) HasModels() bool { return len(d.Refs) > 0 }

type opDef struct {
	Name        string // method identifier in the target language
	Method      string // HTTP verb
	Path        string
	Description string
	Params      []paramDef
	Request     string // request body model name, "" when absent
	Response    string // response body model name, "" when absent
}

type paramDef struct {
	Wire     string
	Ident    string
	Type     string
	Required bool
}

func buildAPIData(lang language, pkg, module string, r *codegen.Resource) (*apiData, error) {
	stringType := &codegen.FieldType{Kind: codegen.KindString}
	stringName, err := lang.typeName(stringType)
	if err != nil {
		return nil, err
	}

	bodyRefs := map[string]bool{}
	ops := make([]opDef, 0, len(r.Operations))
	for _, op := range r.Operations {
		params := make([]paramDef, 0, len(op.PathParams)+len(op.HeaderParams)+len(op.QueryParams))
		for _, name := range op.PathParams {
			params = append(params, paramDef{
				Wire:     name,
				Ident:    lang.param(name),
				Type:     stringName,
				Required: true,
			})
		}
		for _, hp := range op.HeaderParams {
			params = append(params, paramDef{
				Wire:     hp.Name,
				Ident:    lang.param(hp.Name),
				Type:     stringName,
				Required: hp.Required,
			})
		}
		for _, qp := range op.QueryParams {
			typeStr, err := lang.typeName(qp.Type)
			if err != nil {
				return nil, fmt.Errorf("operation %s, query parameter %s: %w", op.ID, qp.Name, err)
			}
			params = append(params, paramDef{
				Wire:     qp.Name,
				Ident:    lang.param(qp.Name),
				Type:     typeStr,
				Required: qp.Required,
			})
		}
		if op.RequestBodySchemaName != "" {
			bodyRefs[op.RequestBodySchemaName] = true
		}
		if op.ResponseBodySchemaName != "" {
			bodyRefs[op.ResponseBodySchemaName] = true
		}
		ops = append(ops, opDef{
			Name:        lang.method(op.Name),
			Method:      strings.ToUpper(string(op.Method)),
			Path:        op.Path,
			Description: op.Description,
			Params:      params,
			Request:     op.RequestBodySchemaName,
			Response:    op.ResponseBodySchemaName,
		})
	}

	refNames := make([]string, 0, len(bodyRefs))
	for name := range bodyRefs {
		refNames = append(refNames, name)
	}
	sort.Strings(refNames)
	refs := make([]refImport, 0, len(refNames))
	for _, name := range refNames {
		refs = append(refs, refImport{Name: name, File: toSnakeCase(name)})
	}

	return &apiData{
		Package:  pkg,
		Resource: toPascalCase(r.Name),
		RawName:  r.Name,
		Module:   module,
		Ops:      ops,
		Refs:     refs,
	}, nil
}

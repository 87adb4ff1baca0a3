// Package render turns a compiled API and its named types into per-language
// SDK scaffolding on disk: one model file per type, one interface file per
// resource, plus an api.yaml manifest of everything that was compiled.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/apiforge/sdkgen/internal/codegen"
)

//go:embed templates/*.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.ParseFS(tmplFS, "templates/*.tmpl"))

// Options controls how the renderer lays out a generated project.
type Options struct {
	OutDir      string   // required; target directory to write into
	Langs       []string // targets to render; defaults to all supported
	PackageName string   // base package/namespace name; defaults to "sdk"
	GoModule    string   // import root for the Go target; derived from PackageName when empty
	Force       bool     // overwrite a non-empty output directory
	DryRun      bool     // don't write, only plan
}

// PlannedFile describes a file the renderer intends to write.
type PlannedFile struct {
	RelPath string
	Size    int
	Mode    os.FileMode
}

// Result returns the planned files and the resolved package name.
type Result struct {
	PackageName string
	Planned     []PlannedFile
}

// Emit renders the compiled IR for every requested language.
func Emit(ctx context.Context, api *codegen.Api, types codegen.Types, opts Options) (*Result, error) {
	_ = ctx
	if api == nil {
		return nil, fmt.Errorf("render: nil api")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("render: OutDir is required")
	}
	pkg := strings.TrimSpace(opts.PackageName)
	if pkg == "" {
		pkg = "sdk"
	}
	module := strings.TrimSpace(opts.GoModule)
	if module == "" {
		module = "example.com/" + toSnakeCase(pkg)
	}

	targets := opts.Langs
	if len(targets) == 0 {
		targets = Languages()
	}

	files := map[string][]byte{}
	for _, name := range targets {
		lang, ok := languages[name]
		if !ok {
			return nil, fmt.Errorf("render: unsupported language %q (supported: %s)", name, strings.Join(Languages(), ", "))
		}
		langPkg := packageFor(lang, pkg)

		for _, typeName := range types.Names() {
			data, err := buildModelData(lang, langPkg, types[typeName])
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", lang.name, err)
			}
			content, err := execute(lang.modelTmpl, data)
			if err != nil {
				return nil, fmt.Errorf("render %s model %s: %w", lang.name, typeName, err)
			}
			files[filepath.Join(lang.name, "models", toSnakeCase(typeName)+lang.ext)] = content
		}

		for _, res := range api.Resources() {
			data, err := buildAPIData(lang, langPkg, module, res)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", lang.name, err)
			}
			content, err := execute(lang.apiTmpl, data)
			if err != nil {
				return nil, fmt.Errorf("render %s resource %s: %w", lang.name, res.Name, err)
			}
			files[filepath.Join(lang.name, "api", toSnakeCase(res.Name)+lang.ext)] = content
		}
	}

	manifest, err := marshalManifest(api, types)
	if err != nil {
		return nil, err
	}
	files["api.yaml"] = manifest

	// Plan in deterministic order
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	planned := make([]PlannedFile, 0, len(paths))
	for _, p := range paths {
		planned = append(planned, PlannedFile{RelPath: filepath.ToSlash(p), Size: len(files[p]), Mode: 0o644})
	}

	if !opts.DryRun {
		if err := writeFiles(opts.OutDir, files, opts.Force); err != nil {
			return nil, err
		}
	}

	return &Result{PackageName: pkg, Planned: planned}, nil
}

func execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// packageFor adapts the base package name to a target's convention. The Go,
// JS and Rust templates derive their own layout and ignore it.
func packageFor(lang language, pkg string) string {
	switch lang.name {
	case "csharp":
		return toPascalCase(pkg)
	case "kotlin":
		return toSnakeCase(pkg)
	default:
		return pkg
	}
}

type manifest struct {
	Resources []manifestResource `yaml:"resources"`
	Types     []manifestType     `yaml:"types"`
}

type manifestResource struct {
	Name       string       `yaml:"name"`
	Operations []manifestOp `yaml:"operations"`
}

type manifestOp struct {
	Name     string `yaml:"name"`
	Method   string `yaml:"method"`
	Path     string `yaml:"path"`
	Request  string `yaml:"request,omitempty"`
	Response string `yaml:"response,omitempty"`
}

type manifestType struct {
	Name   string   `yaml:"name"`
	Fields []string `yaml:"fields,omitempty"`
}

func marshalManifest(api *codegen.Api, types codegen.Types) ([]byte, error) {
	var m manifest
	for _, res := range api.Resources() {
		mr := manifestResource{Name: res.Name}
		for _, op := range res.Operations {
			mr.Operations = append(mr.Operations, manifestOp{
				Name:     op.Name,
				Method:   strings.ToUpper(string(op.Method)),
				Path:     op.Path,
				Request:  op.RequestBodySchemaName,
				Response: op.ResponseBodySchemaName,
			})
		}
		m.Resources = append(m.Resources, mr)
	}
	for _, name := range types.Names() {
		mt := manifestType{Name: name}
		if sd, ok := types[name].Data.(codegen.StructData); ok {
			for _, f := range sd.Fields {
				mt.Fields = append(mt.Fields, f.Name)
			}
		}
		m.Types = append(m.Types, mt)
	}
	out, err := yaml.Marshal(&m)
	if err != nil {
		return nil, fmt.Errorf("marshal api.yaml: %w", err)
	}
	return out, nil
}

func writeFiles(outDir string, files map[string][]byte, force bool) error {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve out dir: %w", err)
	}
	// Pre-flight: if directory exists and not empty and not force, error.
	if st, err := os.Stat(abs); err == nil && st.IsDir() && !force {
		entries, rerr := os.ReadDir(abs)
		if rerr == nil && len(entries) > 0 {
			return fmt.Errorf("render: output directory %q is not empty (use --force to overwrite)", abs)
		}
	}
	for rel, content := range files {
		p := filepath.Join(abs, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
		// atomic write via temp file + rename
		tmp := p + ".tmp-" + time.Now().Format("20060102150405")
		if err := os.WriteFile(tmp, content, 0o644); err != nil {
			return fmt.Errorf("write temp %s: %w", rel, err)
		}
		if err := os.Rename(tmp, p); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("rename %s: %w", rel, err)
		}
	}
	return nil
}

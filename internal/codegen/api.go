package codegen

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

type HttpMethod string

const (
	GET     HttpMethod = "get"
	POST    HttpMethod = "post"
	PUT     HttpMethod = "put"
	DELETE  HttpMethod = "delete"
	PATCH   HttpMethod = "patch"
	HEAD    HttpMethod = "head"
	OPTIONS HttpMethod = "options"
	TRACE   HttpMethod = "trace"
)

// versionTag is the only operation ID version segment handled today. IDs
// carrying any other version are reserved for later and skipped.
const versionTag = "v1"

// Api is the intermediate representation of the document's path table: every
// extracted operation, grouped by resource. Built once and read-only
// afterwards.
type Api struct {
	resources map[string]*Resource
}

// Resources returns the resources sorted by name.
func (a *Api) Resources() []*Resource {
	names := make([]string, 0, len(a.resources))
	for name := range a.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*Resource, 0, len(names))
	for _, name := range names {
		out = append(out, a.resources[name])
	}
	return out
}

// Resource is a named group of operations, derived from the middle segment
// of each operation ID. Operations keep document encounter order.
type Resource struct {
	Name       string
	Operations []*Operation
}

// Operation is one extracted HTTP endpoint.
type Operation struct {
	// ID is the raw dot-delimited operationId from the document.
	ID string
	// Name is the operation segment of the ID, used as the method name in
	// generated code.
	Name        string
	Description string
	Method      HttpMethod
	Path        string
	// PathParams are the names of the endpoint's path parameters. Only
	// required string-typed parameters are supported.
	PathParams   []string
	HeaderParams []HeaderParam
	QueryParams  []QueryParam
	// RequestBodySchemaName names the component schema of the JSON request
	// body. Empty when the operation has no body.
	RequestBodySchemaName string
	// ResponseBodySchemaName names the component schema shared by all
	// success responses. Empty when none of them carries a body.
	ResponseBodySchemaName string
}

// HeaderParam is a header parameter. Values are treated as opaque strings.
type HeaderParam struct {
	Name        string
	Required    bool
	Description string
}

// QueryParam is a query parameter with a resolved field type.
type QueryParam struct {
	Name        string
	Required    bool
	Type        *FieldType
	Description string
}

// BuildApi walks the document's path table and extracts one Operation per
// supported (path, method, operation) triple. Unsupported operations are
// skipped with a diagnostic; a $ref path item aborts the whole build.
func BuildApi(paths openapi3.Paths, diag *Diagnostics) (*Api, error) {
	api := &Api{resources: make(map[string]*Resource)}

	pathKeys := make([]string, 0, len(paths))
	for p := range paths {
		pathKeys = append(pathKeys, p)
	}
	sort.Strings(pathKeys)

	for _, path := range pathKeys {
		item := paths[path]
		if item == nil {
			continue
		}
		if item.Ref != "" {
			return nil, fmt.Errorf("path %s: $ref path items are not supported", path)
		}
		if len(item.Parameters) > 0 {
			diag.Info("parameters at the path item level are not supported", slog.String("path", path))
			continue
		}

		ops := []struct {
			m  HttpMethod
			op *openapi3.Operation
		}{
			{GET, item.Get},
			{POST, item.Post},
			{PUT, item.Put},
			{DELETE, item.Delete},
			{PATCH, item.Patch},
			{HEAD, item.Head},
			{OPTIONS, item.Options},
			{TRACE, item.Trace},
		}

		for _, pair := range ops {
			if pair.op == nil {
				continue
			}
			resName, op, err := operationFromOpenAPI(path, pair.m, pair.op, diag)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", strings.ToUpper(string(pair.m)), path, err)
			}
			if op == nil {
				continue
			}
			res := api.resources[resName]
			if res == nil {
				res = &Resource{Name: resName}
				api.resources[resName] = res
			}
			res.Operations = append(res.Operations, op)
		}
	}

	return api, nil
}

// ReferencedComponents returns the de-duplicated, sorted set of component
// schema names used as a request or response body by any operation.
func (a *Api) ReferencedComponents() []string {
	set := make(map[string]struct{})
	for _, res := range a.resources {
		for _, op := range res.Operations {
			if op.RequestBodySchemaName != "" {
				set[op.RequestBodySchemaName] = struct{}{}
			}
			if op.ResponseBodySchemaName != "" {
				set[op.ResponseBodySchemaName] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var pathParamRe = regexp.MustCompile(`\{([^{}]+)\}`)

// operationFromOpenAPI validates one operation node and extracts it into an
// Operation plus the name of the resource it belongs to. A nil Operation
// with a nil error means the operation was skipped.
func operationFromOpenAPI(path string, method HttpMethod, op *openapi3.Operation, diag *Diagnostics) (string, *Operation, error) {
	if op.OperationID == "" {
		// operations without an operationId are ignored
		return "", nil, nil
	}
	opID := slog.String("op_id", op.OperationID)

	parts := strings.Split(op.OperationID, ".")
	if len(parts) != 3 {
		diag.Debug("skipping operation whose ID does not have two dots", opID)
		return "", nil, nil
	}
	version, resName, opName := parts[0], parts[1], parts[2]
	if version != versionTag {
		diag.Warn("found operation whose ID does not begin with v1", opID)
		return "", nil, nil
	}

	var (
		pathParams   []string
		headerParams []HeaderParam
		queryParams  []QueryParam
	)
	for _, pref := range op.Parameters {
		if pref == nil || pref.Ref != "" {
			diag.Warn("$ref parameters are not supported", opID)
			return "", nil, nil
		}
		p := pref.Value
		if p == nil {
			diag.Warn("parameter without content", opID)
			return "", nil, nil
		}
		param := slog.String("param", p.Name)

		switch {
		case p.In == openapi3.ParameterInPath && simpleStyle(p.Style):
			if !p.Required {
				diag.Warn("optional path parameters are not supported", opID, param)
				return "", nil, nil
			}
			if err := enforceStringParameter(p); err != nil {
				diag.Warn("unsupported path parameter", opID, param, slog.Any("error", err))
				return "", nil, nil
			}
			pathParams = append(pathParams, p.Name)
		case p.In == openapi3.ParameterInHeader && simpleStyle(p.Style):
			if err := enforceStringParameter(p); err != nil {
				diag.Warn("unsupported header parameter", opID, param, slog.Any("error", err))
				return "", nil, nil
			}
			headerParams = append(headerParams, HeaderParam{
				Name:        p.Name,
				Required:    p.Required,
				Description: p.Description,
			})
		case p.In == openapi3.ParameterInQuery && formStyle(p.Style) && !p.AllowReserved && !p.AllowEmptyValue:
			ft, err := fieldTypeFromParameter(p)
			if err != nil {
				diag.Warn("unsupported query parameter type", opID, param, slog.Any("error", err))
				return "", nil, nil
			}
			queryParams = append(queryParams, QueryParam{
				Name:        p.Name,
				Required:    p.Required,
				Type:        ft,
				Description: p.Description,
			})
		default:
			diag.Warn("this kind of parameter is not supported", opID, param,
				slog.String("in", p.In), slog.String("style", p.Style))
			return "", nil, nil
		}
	}

	if !pathParamsMatchTemplate(path, pathParams) {
		diag.Warn("path parameters do not match the path template",
			opID, slog.String("path", path), slog.Any("path_params", pathParams))
		return "", nil, nil
	}

	requestBody, err := requestBodySchemaName(op.RequestBody, diag, opID)
	if err != nil {
		return "", nil, err
	}
	responseBody, err := responseBodySchemaName(op.Responses, diag, opID)
	if err != nil {
		return "", nil, err
	}

	description := strings.TrimSpace(op.Summary)
	if description == "" {
		description = strings.TrimSpace(op.Description)
	}

	out := &Operation{
		ID:                     op.OperationID,
		Name:                   opName,
		Description:            description,
		Method:                 method,
		Path:                   path,
		PathParams:             pathParams,
		HeaderParams:           headerParams,
		QueryParams:            queryParams,
		RequestBodySchemaName:  requestBody,
		ResponseBodySchemaName: responseBody,
	}
	return resName, out, nil
}

func simpleStyle(style string) bool { return style == "" || style == "simple" }
func formStyle(style string) bool   { return style == "" || style == "form" }

// pathParamsMatchTemplate checks that every {name} placeholder in the path
// template is declared exactly once as a path parameter, and nothing else is.
func pathParamsMatchTemplate(path string, pathParams []string) bool {
	declared := make(map[string]int, len(pathParams))
	for _, name := range pathParams {
		declared[name]++
	}
	matches := pathParamRe.FindAllStringSubmatch(path, -1)
	if len(matches) != len(pathParams) {
		return false
	}
	for _, m := range matches {
		if declared[m[1]] != 1 {
			return false
		}
	}
	return true
}

// enforceStringParameter rejects path and header parameters that are
// anything but a plain inline string schema. Their values are passed through
// verbatim in generated clients.
func enforceStringParameter(p *openapi3.Parameter) error {
	if len(p.Content) > 0 {
		return fmt.Errorf("found unexpected 'content' data format")
	}
	if p.Schema == nil || p.Schema.Value == nil {
		return fmt.Errorf("parameter has no schema")
	}
	if typ := p.Schema.Value.Type; typ != "string" {
		return fmt.Errorf("unsupported parameter type %q", typ)
	}
	return nil
}

func fieldTypeFromParameter(p *openapi3.Parameter) (*FieldType, error) {
	if len(p.Content) > 0 {
		return nil, fmt.Errorf("found unexpected 'content' data format")
	}
	return fieldTypeFromSchemaRef(p.Schema)
}

// requestBodySchemaName extracts the component schema name of the JSON
// request body. Structural violations are fatal; a $ref body merely loses
// its name, matching the shipped generator.
func requestBodySchemaName(ref *openapi3.RequestBodyRef, diag *Diagnostics, opID slog.Attr) (string, error) {
	if ref == nil {
		return "", nil
	}
	if ref.Ref != "" {
		diag.Warn("$ref request bodies are not supported", opID)
		return "", nil
	}
	body := ref.Value
	if body == nil {
		return "", nil
	}
	if !body.Required {
		return "", fmt.Errorf("request body must be required")
	}
	if len(body.Extensions) > 0 {
		return "", fmt.Errorf("request body extensions are not supported")
	}
	if len(body.Content) != 1 {
		return "", fmt.Errorf("request body must have exactly one content entry, found %d", len(body.Content))
	}
	mt := body.Content["application/json"]
	if mt == nil {
		return "", fmt.Errorf("request body must have an application/json content entry")
	}
	if len(mt.Extensions) > 0 {
		return "", fmt.Errorf("request body content extensions are not supported")
	}
	if mt.Schema == nil {
		return "", fmt.Errorf("request body has no schema")
	}
	name := componentSchemaName(mt.Schema.Ref)
	if name == "" {
		diag.Warn("unexpected non-$ref json body schema", opID)
	}
	return name, nil
}

// responseBodySchemaName selects the success responses of an operation and
// returns the component schema name they all agree on, or "" when none of
// them carries a body. Disagreement between success responses is fatal.
func responseBodySchemaName(responses openapi3.Responses, diag *Diagnostics, opID slog.Attr) (string, error) {
	codes := make([]string, 0, len(responses))
	for code := range responses {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var (
		agreed string
		found  bool
	)
	for _, code := range codes {
		status, err := strconv.Atoi(code)
		if err != nil {
			return "", fmt.Errorf("unsupported response key %q", code)
		}
		switch {
		case status < 100 || status >= 600:
			diag.Warn("response status code out of range", opID, slog.Int("status", status))
			continue
		case (status > 100 && status < 200) || (status > 300 && status < 400):
			diag.Warn("unexpected informational or redirect response", opID, slog.Int("status", status))
			continue
		case status < 200 || status >= 300:
			// client and server errors don't carry the success body
			continue
		}

		name, err := successResponseSchemaName(responses[code], diag, opID)
		if err != nil {
			return "", fmt.Errorf("response %d: %w", status, err)
		}
		if found && name != agreed {
			return "", fmt.Errorf("success responses disagree on the body schema: %q vs %q", agreed, name)
		}
		agreed, found = name, true
	}
	if !found {
		return "", fmt.Errorf("expected at least one success response")
	}
	return agreed, nil
}

func successResponseSchemaName(ref *openapi3.ResponseRef, diag *Diagnostics, opID slog.Attr) (string, error) {
	if ref == nil || ref.Value == nil {
		return "", nil
	}
	resp := ref.Value
	if len(resp.Content) == 0 {
		// response without a body
		return "", nil
	}
	if len(resp.Content) != 1 {
		return "", fmt.Errorf("expected exactly one content entry, found %d", len(resp.Content))
	}
	mt := resp.Content["application/json"]
	if mt == nil {
		return "", fmt.Errorf("expected an application/json content entry")
	}
	if mt.Schema == nil {
		return "", fmt.Errorf("response content has no schema")
	}
	name := componentSchemaName(mt.Schema.Ref)
	if name == "" {
		diag.Warn("unexpected non-$ref response body schema", opID)
	}
	return name, nil
}

const componentSchemaPrefix = "#/components/schemas/"

// componentSchemaName extracts the bare name from a component schema
// reference, or returns "" when ref points anywhere else.
func componentSchemaName(ref string) string {
	name := strings.TrimPrefix(ref, componentSchemaPrefix)
	if name == ref || strings.Contains(name, "/") {
		return ""
	}
	return name
}

package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a tool after checking that the zero value of its output
// type satisfies the output schema the SDK infers for it.
//
// Panics if the check fails, so a bad output type is caught at startup.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
}

// CheckOutputSchema panics when the zero value of T would fail the schema
// the SDK infers from T. Two mistakes are caught:
//
//   - slice fields without omitempty/omitzero, which marshal as null while
//     the schema demands an array;
//   - json.RawMessage fields, which marshal as arbitrary JSON while the
//     schema describes []byte as an array of integers.
//
// The untyped "any" output is skipped, as are types the schema generator
// cannot handle (the SDK reports those itself).
func CheckOutputSchema[T any](toolName string) {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return
	}
	elem := rt
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	if paths := rawMessageFields(elem, nil, make(map[reflect.Type]bool)); len(paths) > 0 {
		panic(fmt.Sprintf(
			"AddTool %q: output type %s has json.RawMessage at %s\n"+
				"  the inferred schema expects an array of integers for it\n"+
				"  Fix: declare the field as any and fill it with types.ToAny(value)",
			toolName, elem, strings.Join(paths, ", "),
		))
	}

	schema, err := jsonschema.ForType(elem, &jsonschema.ForOptions{})
	if err != nil {
		return
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return
	}

	data, err := json.Marshal(reflect.Zero(elem).Interface())
	if err != nil {
		return
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return
	}

	if err := resolved.Validate(&v); err != nil {
		panic(fmt.Sprintf(
			"AddTool %q: zero value of %s does not match its output schema: %v\n"+
				"  JSON: %s\n"+
				"  Fix: tag slice fields with omitzero or initialize them to empty slices",
			toolName, elem, err, data,
		))
	}
}

var rawMessageType = reflect.TypeFor[json.RawMessage]()

// rawMessageFields returns the paths of every json.RawMessage reachable from t.
func rawMessageFields(t reflect.Type, path []string, visiting map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == rawMessageType {
		return []string{strings.Join(path, ".")}
	}
	if visiting[t] {
		return nil
	}
	visiting[t] = true
	defer delete(visiting, t)

	var found []string
	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if f.IsExported() {
				found = append(found, rawMessageFields(f.Type, append(path, f.Name), visiting)...)
			}
		}
	case reflect.Slice, reflect.Array:
		found = append(found, rawMessageFields(t.Elem(), append(path, "[]"), visiting)...)
	case reflect.Map:
		found = append(found, rawMessageFields(t.Elem(), append(path, "[value]"), visiting)...)
	}
	return found
}

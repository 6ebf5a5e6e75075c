// Package middleware carries the gin middleware shared by the HTML and
// JSON surfaces: request metrics and JSON response validation.
package middleware

import (
	"embed"
	"net/http"
	"strings"
	"sync"

	contextutils "feedbackapp/internal/utils"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemasFS embed.FS

// SchemaLoader holds the compiled JSON Schemas for the /v1 API responses.
type SchemaLoader struct {
	schemas map[string]*gojsonschema.Schema
}

var (
	loaderOnce   sync.Once
	globalLoader *SchemaLoader
	loaderErr    error
)

// AutoLoadSchemas compiles the embedded schemas once per process.
func AutoLoadSchemas() (*SchemaLoader, error) {
	loaderOnce.Do(func() {
		globalLoader, loaderErr = NewSchemaLoader()
	})
	return globalLoader, loaderErr
}

// NewSchemaLoader compiles every embedded schema file, keyed by file name
// without the .json suffix.
func NewSchemaLoader() (*SchemaLoader, error) {
	entries, err := schemasFS.ReadDir("schemas")
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to read embedded schemas")
	}

	sl := &SchemaLoader{schemas: make(map[string]*gojsonschema.Schema, len(entries))}
	for _, entry := range entries {
		data, err := schemasFS.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return nil, contextutils.WrapErrorf(err, "failed to read schema %s", entry.Name())
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			return nil, contextutils.WrapErrorf(err, "failed to compile schema %s", entry.Name())
		}
		sl.schemas[strings.TrimSuffix(entry.Name(), ".json")] = schema
	}
	return sl, nil
}

// DetermineSchemaFromPath maps a request to the schema validating its
// response. Empty string means the route has no response schema.
func (sl *SchemaLoader) DetermineSchemaFromPath(path, method string) string {
	if method != http.MethodGet {
		return ""
	}
	switch {
	case path == "/v1/version":
		return "version"
	case path == "/v1/feedback":
		return "feedback_list"
	case strings.HasPrefix(path, "/v1/feedback/"):
		return "feedback_entry"
	}
	return ""
}

// ValidateData validates data against the named schema.
func (sl *SchemaLoader) ValidateData(data interface{}, schemaName string) error {
	schema, ok := sl.schemas[schemaName]
	if !ok {
		return contextutils.ErrorWithContextf("unknown schema: %s", schemaName)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return contextutils.WrapErrorf(err, "failed to validate against schema %s", schemaName)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return contextutils.ErrorWithContextf("data does not match schema %s: %s", schemaName, strings.Join(msgs, "; "))
	}
	return nil
}

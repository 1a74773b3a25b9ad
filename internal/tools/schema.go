package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// compileSchema compiles a tool's argument schema.
func compileSchema(name string, raw json.RawMessage) (*jsonschema.Schema, error) {
	if !json.Valid(raw) {
		return nil, fmt.Errorf("schema for %s is not valid JSON", name)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name+".json", strings.NewReader(string(raw))); err != nil {
		return nil, fmt.Errorf("add schema for %s: %w", name, err)
	}
	schema, err := compiler.Compile(name + ".json")
	if err != nil {
		return nil, fmt.Errorf("compile schema for %s: %w", name, err)
	}
	return schema, nil
}

// declaresProperty reports whether the top-level schema lists key under "properties".
func declaresProperty(raw json.RawMessage, key string) (bool, error) {
	var doc struct {
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false, err
	}
	_, ok := doc.Properties[key]
	return ok, nil
}

// validateArgs validates a decoded argument value against schema.
func validateArgs(tool string, schema *jsonschema.Schema, args any) error {
	err := schema.Validate(args)
	if err == nil {
		return nil
	}

	ve := &ValidationError{Tool: tool}
	if sve, ok := err.(*jsonschema.ValidationError); ok {
		collectViolations(ve, sve)
	}
	if len(ve.Violations) == 0 {
		ve.Violations = append(ve.Violations, Violation{Message: err.Error()})
	}
	return ve
}

func collectViolations(ve *ValidationError, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		ve.Violations = append(ve.Violations, Violation{
			Path:    jsonPointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectViolations(ve, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}

// Argument schemas shared by the builtin tools.
var (
	emptySchema = json.RawMessage(`{"type":"object","properties":{}}`)

	taskIDProperty = `"task_id":{"type":"string","description":"ID of the task"}`
)

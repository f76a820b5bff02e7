package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"
)

// readPayload reads the document named by args (stdin for "-" or no
// argument) and returns it as JSON. YAML input is converted.
func readPayload(stdin io.Reader, args []string, format string) ([]byte, error) {
	var (
		data []byte
		err  error
		name = "-"
	)
	if len(args) > 0 {
		name = args[0]
	}
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	switch resolveFormat(name, data, format) {
	case "json":
		return data, nil
	case "yaml":
		return yamlToJSON(data)
	default:
		return nil, fmt.Errorf("unknown input format %q (must be auto, json, or yaml)", format)
	}
}

func resolveFormat(name string, data []byte, format string) string {
	if format != "auto" {
		return strings.ToLower(format)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return "json"
	}
	return "yaml"
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	out, err := json.Marshal(doc, json.Deterministic(true))
	if err != nil {
		return nil, fmt.Errorf("converting YAML to JSON: %w", err)
	}
	return out, nil
}

// indent renders v as indented JSON for display.
func indent(v any) (string, error) {
	out, err := json.Marshal(v, json.Deterministic(true), jsontext.WithIndent("  "))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

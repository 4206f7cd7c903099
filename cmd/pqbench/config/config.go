// Package config loads and validates the optional JSON config file
// pqbench accepts via -config, the same role logangolia's
// SchemaValidator plays for its document store: a compiled JSON
// Schema gates what shape of config the rest of the program ever has
// to deal with, so Load either returns a fully valid Config or an
// error, never a partially-populated one.
package config

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaFS embed.FS

const schemaResourceName = "pqbench-config.json"

// Config holds the subset of command-line flags a run can also take
// from a JSON file via -config, so a benchmark run is reproducible
// from a checked-in file instead of a shell history entry.
type Config struct {
	Producers      int `json:"producers"`
	Consumers      int `json:"consumers"`
	Iterations     int `json:"iterations"`
	HazardCapacity int `json:"hazardCapacity"`
	LatencyShards  int `json:"latencyShards"`
}

func compiledSchema() (*jsonschema.Schema, error) {
	raw, err := schemaFS.ReadFile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaResourceName, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaResourceName)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// Load reads path, validates it against the embedded schema, and
// unmarshals it into a Config. Fields absent from the file keep their
// Config zero value; the caller is expected to fall back to flag
// defaults for those.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return cfg, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Error("config: invalid JSON", "path", path, "error", err)
		return cfg, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	if err := schema.Validate(doc); err != nil {
		slog.Error("config: schema validation failed", "path", path, "error", err)
		return cfg, fmt.Errorf("config %s failed schema validation: %w", path, err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	slog.Info("config: loaded", "path", path)
	return cfg, nil
}

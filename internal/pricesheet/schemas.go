package pricesheet

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	fetchSchemaPath = "schemas/fetch_response.json"
	saveSchemaPath  = "schemas/save_response.json"
)

type envelopeSchemas struct {
	fetch *jsonschema.Schema
	save  *jsonschema.Schema
}

func compileSchemas() (*envelopeSchemas, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	for _, path := range []string{fetchSchemaPath, saveSchemaPath} {
		raw, err := schemaFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", path, err)
		}
		if err := compiler.AddResource(path, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", path, err)
		}
	}

	fetch, err := compiler.Compile(fetchSchemaPath)
	if err != nil {
		return nil, fmt.Errorf("compile fetch schema: %w", err)
	}
	save, err := compiler.Compile(saveSchemaPath)
	if err != nil {
		return nil, fmt.Errorf("compile save schema: %w", err)
	}
	return &envelopeSchemas{fetch: fetch, save: save}, nil
}

// decodeAndValidate checks body against schema and then decodes it into out.
func decodeAndValidate(schema *jsonschema.Schema, body []byte, out any) error {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrBadEnvelope, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrBadEnvelope, err)
	}

	dec = json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadEnvelope, err)
	}
	return nil
}

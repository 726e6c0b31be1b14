package listingform

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"jarrib-bot/internal/api/jarrib"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/listing-draft.json
var schemaFS embed.FS

const draftSchemaPath = "schemas/listing-draft.json"

var (
	draftSchema     *jsonschema.Schema
	draftSchemaErr  error
	draftSchemaOnce sync.Once
)

func compiledDraftSchema() (*jsonschema.Schema, error) {
	draftSchemaOnce.Do(func() {
		data, err := schemaFS.ReadFile(draftSchemaPath)
		if err != nil {
			draftSchemaErr = fmt.Errorf("read draft schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(draftSchemaPath, bytes.NewReader(data)); err != nil {
			draftSchemaErr = fmt.Errorf("add draft schema: %w", err)
			return
		}

		draftSchema, draftSchemaErr = compiler.Compile(draftSchemaPath)
	})
	return draftSchema, draftSchemaErr
}

// ValidateDraft checks the request body against the listing schema
// before it is sent
func ValidateDraft(draft jarrib.ListingDraft) error {
	schema, err := compiledDraftSchema()
	if err != nil {
		return err
	}

	body, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("draft is not valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("draft schema validation failed: %w", err)
	}

	return nil
}

package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const maxBodyBytes = 64 << 10

var (
	searchRequestSchema = jsonschema.MustCompileString("search_request.json", `{
  "type": "object",
  "required": ["text"],
  "properties": {
    "text": {"type": "string", "maxLength": 4000}
  }
}`)

	callSearchRequestSchema = jsonschema.MustCompileString("call_search_request.json", `{
  "type": "object",
  "required": ["call_id", "text"],
  "properties": {
    "call_id": {"type": "string", "minLength": 1, "maxLength": 200},
    "text": {"type": "string", "maxLength": 4000}
  }
}`)
)

// decodeValidated reads the request body, checks it against schema and
// decodes it into dst.
func decodeValidated(r *http.Request, schema *jsonschema.Schema, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

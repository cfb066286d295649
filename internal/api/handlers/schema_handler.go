package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/markdave123-py/dmpart/internal/core/schema"
)

type SchemaHandler struct {
	schema *schema.Schema
}

func NewSchemaHandler(s *schema.Schema) *SchemaHandler {
	if s == nil {
		s = schema.Default()
	}
	return &SchemaHandler{schema: s}
}

type schemaResponse struct {
	Keys     []string         `json:"keys"`
	Sections []schema.Section `json:"sections"`
	Tags     []string         `json:"tags"`
}

// GetSchema describes the active hierarchy and the tag vocabulary.
func (h *SchemaHandler) GetSchema(w http.ResponseWriter, _ *http.Request) {
	resp := schemaResponse{Keys: h.schema.Keys(), Sections: h.schema.Sections}
	for _, t := range schema.Taxonomy() {
		resp.Tags = append(resp.Tags, t.Name)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

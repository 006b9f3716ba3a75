// Package resources implements MCP resource handlers. Resources are
// read-only reference data the host can pull for context; they use
// URI-based addressing (union://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sergei-tigrov/12union/internal/catalog"
)

// Handler serves the static assessment reference data.
type Handler struct {
	bank *catalog.Bank
}

// NewHandler creates a resource Handler over the loaded catalog.
func NewHandler(bank *catalog.Bank) *Handler {
	return &Handler{bank: bank}
}

// LevelsResource returns the MCP resource definition for the 12-level
// scale.
func (h *Handler) LevelsResource() mcp.Resource {
	return mcp.NewResource(
		"union://scale/levels",
		"12union Level Scale",
		mcp.WithResourceDescription("The 12 development levels with names, zones, and display metadata"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleLevels returns the full level table as JSON.
func (h *Handler) HandleLevels(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(catalog.Levels(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling level table: %w", err)
	}
	return jsonResource(req.Params.URI, data), nil
}

// CatalogResource returns the MCP resource definition for the question
// catalog summary.
func (h *Handler) CatalogResource() mcp.Resource {
	return mcp.NewResource(
		"union://catalog/summary",
		"12union Question Catalog",
		mcp.WithResourceDescription("Summary of the question bank: ids, categories, dimensions, and topics"),
		mcp.WithMIMEType("application/json"),
	)
}

// catalogEntry is the exported summary row for one question. Option
// texts are deliberately omitted: hosts must not see the level mapping
// outside an active question.
type catalogEntry struct {
	ID        string            `json:"id"`
	Category  catalog.Category  `json:"category"`
	Dimension catalog.Dimension `json:"dimension"`
	Topic     string            `json:"topic"`
	Options   int               `json:"options"`
}

// HandleCatalog returns the question summary as JSON.
func (h *Handler) HandleCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entries := make([]catalogEntry, 0, h.bank.Len())
	for _, q := range h.bank.All() {
		entries = append(entries, catalogEntry{
			ID:        q.ID,
			Category:  q.Category,
			Dimension: q.Dimension,
			Topic:     q.Topic,
			Options:   len(q.Options),
		})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling catalog summary: %w", err)
	}
	return jsonResource(req.Params.URI, data), nil
}

func jsonResource(uri string, data []byte) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}
}

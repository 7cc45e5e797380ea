package handlers

import (
	"net/http"

	"github.com/relaykit/relay/internal/domain/tool"
)

// ToolHandler serves the registered tool catalog.
type ToolHandler struct {
	registry *tool.Registry
}

func NewToolHandler(registry *tool.Registry) *ToolHandler {
	return &ToolHandler{registry: registry}
}

type toolResponse struct {
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Params       []paramResponse `json:"params"`
	BatchCapable bool            `json:"batch_capable"`
}

type paramResponse struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Default *string `json:"default,omitempty"`
}

// ListTools handles GET /api/v1/tools.
func (h *ToolHandler) ListTools(w http.ResponseWriter, _ *http.Request) {
	entries := h.registry.All()

	out := make([]toolResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toToolResponse(e.Descriptor))
	}

	writeList(w, out, len(out))
}

func toToolResponse(d tool.Descriptor) toolResponse {
	params := make([]paramResponse, 0, len(d.Params))
	for _, p := range d.Params {
		params = append(params, paramResponse{
			Name:    p.Name,
			Type:    string(p.Type),
			Default: p.Default,
		})
	}
	return toolResponse{
		Name:         d.Name,
		Description:  d.Description,
		Params:       params,
		BatchCapable: d.BatchCapable,
	}
}

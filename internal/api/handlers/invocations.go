package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/relaykit/relay/internal/domain/runlog"
)

// InvocationHandler serves read-only queries over the invocation log.
type InvocationHandler struct {
	store runlog.Store
}

func NewInvocationHandler(store runlog.Store) *InvocationHandler {
	return &InvocationHandler{store: store}
}

// ListInvocations handles GET /api/v1/invocations with optional tool,
// status and correlation_id filters plus limit/offset pagination.
func (h *InvocationHandler) ListInvocations(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilters(w, r)
	if !ok {
		return
	}

	recs, err := h.store.Query(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to query invocations")
		return
	}

	writeList(w, recs, len(recs))
}

// ListByCorrelation handles GET /api/v1/invocations/{correlation_id}.
// The response contains the record for the id itself plus all batch
// children derived from it.
func (h *InvocationHandler) ListByCorrelation(w http.ResponseWriter, r *http.Request) {
	corrID := chi.URLParam(r, "correlation_id")
	if corrID == "" {
		writeError(w, http.StatusBadRequest, "correlation_id is required")
		return
	}

	p := parsePaginationParams(r)
	recs, err := h.store.Query(r.Context(), runlog.Filters{
		CorrelationID: corrID,
		Limit:         p.Limit,
		Offset:        p.Offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to query invocations")
		return
	}
	if len(recs) == 0 {
		writeError(w, http.StatusNotFound, "no invocations for correlation id")
		return
	}

	writeList(w, recs, len(recs))
}

// parseFilters builds query filters from URL params, rejecting an
// unrecognized status value before the store is touched.
func parseFilters(w http.ResponseWriter, r *http.Request) (runlog.Filters, bool) {
	p := parsePaginationParams(r)
	f := runlog.Filters{
		Tool:          r.URL.Query().Get("tool"),
		CorrelationID: r.URL.Query().Get("correlation_id"),
		Limit:         p.Limit,
		Offset:        p.Offset,
	}

	switch s := runlog.Status(r.URL.Query().Get("status")); s {
	case "":
	case runlog.StatusSuccess, runlog.StatusError:
		f.Status = s
	default:
		writeError(w, http.StatusBadRequest, "status must be success or error")
		return runlog.Filters{}, false
	}

	return f, true
}

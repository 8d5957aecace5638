package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jmswain/listquery/internal/domain"
	"github.com/jmswain/listquery/internal/query"
)

// SearchRequest is the JSON body of POST /records/search.
type SearchRequest struct {
	Collection string              `json:"collection"`
	Conditions domain.ConditionMap `json:"conditions"`
	Categories struct {
		Range   []string `json:"range"`
		AnyOf   []string `json:"any_of"`
		AllOf   []string `json:"all_of"`
		Address []string `json:"address"`
		Search  []string `json:"search"`
	} `json:"categories"`
	Page          int          `json:"page"`
	PerPage       int          `json:"per_page"`
	OrderBy       *domain.Sort `json:"order_by"`
	AllowedFields []string     `json:"allowed_fields"`
}

// Handler exposes the listing service over JSON endpoints.
type Handler struct {
	listing *Listing
}

// NewHTTPHandler wraps the listing service with its HTTP surface.
func NewHTTPHandler(listing *Listing) *Handler {
	return &Handler{listing: listing}
}

// Routes registers the record endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/records/search", h.handleSearch)
	mux.HandleFunc("/records", h.handleCreate)
	mux.HandleFunc("/records/update", h.handleUpdate)
	mux.HandleFunc("/records/", h.handleDelete)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Collection) == "" {
		http.Error(w, "collection is required", http.StatusBadRequest)
		return
	}

	params := ListParams{
		Collection: req.Collection,
		Conditions: req.Conditions,
		Categories: domain.CategorySets{
			Range:   domain.NewFieldSet(req.Categories.Range...),
			AnyOf:   domain.NewFieldSet(req.Categories.AnyOf...),
			AllOf:   domain.NewFieldSet(req.Categories.AllOf...),
			Address: domain.NewFieldSet(req.Categories.Address...),
			Search:  domain.NewFieldSet(req.Categories.Search...),
		},
		Page:          domain.PageRequest{Page: req.Page, PerPage: req.PerPage},
		OrderBy:       req.OrderBy,
		AllowedFields: req.AllowedFields,
	}

	result, err := h.listing.FindPage(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnauthorizedField):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, query.ErrMalformedRange), errors.Is(err, query.ErrInvalidPageSize):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Collection string         `json:"collection"`
		Fields     map[string]any `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Collection) == "" {
		http.Error(w, "collection is required", http.StatusBadRequest)
		return
	}

	result := h.listing.CreateRecord(r.Context(), domain.NewRecord(req.Collection, req.Fields))
	writeMutation(w, result)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		IDs   []uuid.UUID    `json:"ids"`
		Patch map[string]any `json:"patch"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	result := h.listing.UpdateRecords(r.Context(), req.IDs, req.Patch)
	writeMutation(w, result)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/records/"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid record id: %v", err), http.StatusBadRequest)
		return
	}

	result := h.listing.DeleteRecord(r.Context(), id)
	writeMutation(w, result)
}

func writeMutation(w http.ResponseWriter, result MutationResult) {
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, result)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

package api

import (
	"net/http"

	"github.com/erazemk/shareit/internal/service"
)

// RequestsHandler handles item request endpoints.
type RequestsHandler struct {
	Requests *service.RequestService
}

type createRequestRequest struct {
	Description string `json:"description"`
}

// Create handles POST /requests.
func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := sharerID(r)
	var req createRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Requests.Create(r.Context(), userID, req.Description)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, created)
}

// ListOwn handles GET /requests.
func (h *RequestsHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID, _ := sharerID(r)
	reqs, err := h.Requests.ListOwn(r.Context(), userID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, reqs)
}

// ListOthers handles GET /requests/all.
func (h *RequestsHandler) ListOthers(w http.ResponseWriter, r *http.Request) {
	userID, _ := sharerID(r)
	from, size, err := paging(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	reqs, err := h.Requests.ListOthers(r.Context(), userID, from, size)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, reqs)
}

// Get handles GET /requests/{id}.
func (h *RequestsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := sharerID(r)
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	req, err := h.Requests.Get(r.Context(), userID, id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, req)
}

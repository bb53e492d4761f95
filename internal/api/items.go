package api

import (
	"net/http"

	"github.com/erazemk/shareit/internal/service"
)

// ItemsHandler handles item, search and comment endpoints.
type ItemsHandler struct {
	Items *service.ItemService
}

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

type patchItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type createCommentRequest struct {
	Text string `json:"text"`
}

// List handles GET /items: the caller's items with bookings and comments.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := sharerID(r)
	from, size, err := paging(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.Items.GetOwnerItemList(r.Context(), userID, from, size)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := sharerID(r)
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.Items.GetItemDetail(r.Context(), id, userID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Search handles GET /items/search.
func (h *ItemsHandler) Search(w http.ResponseWriter, r *http.Request) {
	from, size, err := paging(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.Items.Search(r.Context(), r.URL.Query().Get("text"), from, size)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, nonNil(items))
}

// Create handles POST /items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := sharerID(r)
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Available == nil {
		jsonError(w, http.StatusBadRequest, "available is required")
		return
	}

	item, err := h.Items.Create(r.Context(), userID, service.NewItem{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
		RequestID:   req.RequestID,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Patch handles PATCH /items/{id}.
func (h *ItemsHandler) Patch(w http.ResponseWriter, r *http.Request) {
	userID, _ := sharerID(r)
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req patchItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Items.Patch(r.Context(), userID, id, service.ItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// AddComment handles POST /items/{id}/comment.
func (h *ItemsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := sharerID(r)
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req createCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.Items.AddComment(r.Context(), userID, id, req.Text)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, comment)
}

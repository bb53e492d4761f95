package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/shareit/internal/model"
	"github.com/erazemk/shareit/internal/service"
)

// BookingsHandler handles booking endpoints.
type BookingsHandler struct {
	Bookings *service.BookingService
}

type createBookingRequest struct {
	ItemID *int64           `json:"itemId"`
	Start  *model.Timestamp `json:"start"`
	End    *model.Timestamp `json:"end"`
}

type bookingItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type bookingUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type bookingResponse struct {
	ID     int64               `json:"id"`
	Start  time.Time           `json:"start"`
	End    time.Time           `json:"end"`
	Status model.BookingStatus `json:"status"`
	Item   bookingItem         `json:"item"`
	Booker bookingUser         `json:"booker"`
}

func toBookingResponse(b *model.Booking) bookingResponse {
	return bookingResponse{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: b.Status,
		Item:   bookingItem{ID: b.ItemID, Name: b.ItemName},
		Booker: bookingUser{ID: b.BookerID, Name: b.BookerName},
	}
}

func toBookingResponses(bookings []model.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	return out
}

// Create handles POST /bookings.
func (h *BookingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := sharerID(r)
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ItemID == nil || req.Start == nil || req.End == nil {
		jsonError(w, http.StatusBadRequest, "itemId, start and end are required")
		return
	}

	b, err := h.Bookings.Create(r.Context(), *req.ItemID, userID, req.Start.Time, req.End.Time)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, toBookingResponse(b))
}

// Decide handles PATCH /bookings/{id}?approved=.
func (h *BookingsHandler) Decide(w http.ResponseWriter, r *http.Request) {
	userID, _ := sharerID(r)
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "approved must be true or false")
		return
	}

	b, err := h.Bookings.Decide(r.Context(), userID, id, approved)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, toBookingResponse(b))
}

// Get handles GET /bookings/{id}.
func (h *BookingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := sharerID(r)
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	b, err := h.Bookings.FindByID(r.Context(), id, userID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, toBookingResponse(b))
}

// ListByBooker handles GET /bookings.
func (h *BookingsHandler) ListByBooker(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, service.RoleBooker)
}

// ListByOwner handles GET /bookings/owner.
func (h *BookingsHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, service.RoleOwner)
}

func (h *BookingsHandler) list(w http.ResponseWriter, r *http.Request, role service.Role) {
	userID, _ := sharerID(r)
	state, err := service.ParseState(r.URL.Query().Get("state"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	from, size, err := paging(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := h.Bookings.List(r.Context(), state, userID, role, from, size)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, toBookingResponses(bookings))
}

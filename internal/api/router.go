package api

import (
	"net/http"

	"github.com/erazemk/shareit/internal/service"
)

// Services bundles the domain services behind the API.
type Services struct {
	Users    *service.UserService
	Items    *service.ItemService
	Bookings *service.BookingService
	Requests *service.RequestService
}

// NewRouter creates the server router with all endpoints registered.
// Every route except /health requires a service token when gatewaySecret is set.
func NewRouter(svc Services, gatewaySecret string) http.Handler {
	mux := http.NewServeMux()

	usersHandler := &UsersHandler{Users: svc.Users}
	itemsHandler := &ItemsHandler{Items: svc.Items}
	bookingsHandler := &BookingsHandler{Bookings: svc.Bookings}
	requestsHandler := &RequestsHandler{Requests: svc.Requests}

	authMW := ServiceAuthMiddleware(gatewaySecret)
	handle := func(pattern string, h http.Handler) {
		mux.Handle(pattern, authMW(h))
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Users.
	handle("GET /users", http.HandlerFunc(usersHandler.List))
	handle("POST /users", http.HandlerFunc(usersHandler.Create))
	handle("GET /users/{id}", http.HandlerFunc(usersHandler.Get))
	handle("PATCH /users/{id}", http.HandlerFunc(usersHandler.Patch))
	handle("DELETE /users/{id}", http.HandlerFunc(usersHandler.Delete))

	// Items and comments.
	handle("GET /items", requireSharer(itemsHandler.List))
	handle("POST /items", requireSharer(itemsHandler.Create))
	handle("GET /items/search", http.HandlerFunc(itemsHandler.Search))
	handle("GET /items/{id}", requireSharer(itemsHandler.Get))
	handle("PATCH /items/{id}", requireSharer(itemsHandler.Patch))
	handle("POST /items/{id}/comment", requireSharer(itemsHandler.AddComment))

	// Bookings.
	handle("POST /bookings", requireSharer(bookingsHandler.Create))
	handle("PATCH /bookings/{id}", requireSharer(bookingsHandler.Decide))
	handle("GET /bookings/{id}", requireSharer(bookingsHandler.Get))
	handle("GET /bookings", requireSharer(bookingsHandler.ListByBooker))
	handle("GET /bookings/owner", requireSharer(bookingsHandler.ListByOwner))

	// Item requests.
	handle("POST /requests", requireSharer(requestsHandler.Create))
	handle("GET /requests", requireSharer(requestsHandler.ListOwn))
	handle("GET /requests/all", requireSharer(requestsHandler.ListOthers))
	handle("GET /requests/{id}", requireSharer(requestsHandler.Get))

	return mux
}

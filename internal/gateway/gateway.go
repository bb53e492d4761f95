// Package gateway is the public edge of ShareIt. It validates requests and
// forwards the valid ones to the server with a short-lived service token.
package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/erazemk/shareit/internal/api"
	"github.com/erazemk/shareit/internal/auth"
)

// maxBodySize limits request bodies read for validation.
const maxBodySize = 1 << 20

// Options configures a Gateway.
type Options struct {
	// ServerURL is the base URL of the ShareIt server.
	ServerURL string
	// Secret signs service tokens. An empty secret forwards requests
	// without a token.
	Secret    string
	RateLimit float64
	RateBurst int
	Logger    *zap.Logger
	Now       func() time.Time
}

// Gateway validates and forwards requests.
type Gateway struct {
	target   *url.URL
	secret   string
	proxy    *httputil.ReverseProxy
	validate *validator.Validate
	limiter  *rateLimiter
	logger   *zap.Logger
}

// New creates a gateway forwarding to opts.ServerURL.
func New(opts Options) (*Gateway, error) {
	target, err := url.Parse(opts.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("parsing server url: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("server url %q must be absolute", opts.ServerURL)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	g := &Gateway{
		target:   target,
		secret:   opts.Secret,
		validate: newValidator(opts.Now),
		limiter:  newRateLimiter(opts.RateLimit, opts.RateBurst),
		logger:   opts.Logger,
	}
	g.proxy = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ModifyResponse: func(resp *http.Response) error {
			// The logging middleware already set the request id.
			resp.Header.Del(api.RequestIDHeader)
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			g.logger.Error("forwarding request",
				zap.String("request_id", api.RequestID(r.Context())),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			jsonError(w, http.StatusBadGateway, "server unavailable")
		},
	}
	return g, nil
}

// Handler returns the gateway's HTTP handler with logging and rate limiting.
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Handle("POST /users", g.forward(jsonBody[userCreate]))
	mux.Handle("GET /users", g.forward(paging))
	mux.Handle("GET /users/{id}", g.forward(pathID))
	mux.Handle("PATCH /users/{id}", g.forward(pathID, jsonBody[userPatch]))
	mux.Handle("DELETE /users/{id}", g.forward(pathID))

	mux.Handle("POST /items", g.forward(sharer, jsonBody[itemCreate]))
	mux.Handle("GET /items", g.forward(sharer, paging))
	mux.Handle("GET /items/search", g.forward(paging))
	mux.Handle("GET /items/{id}", g.forward(sharer, pathID))
	mux.Handle("PATCH /items/{id}", g.forward(sharer, pathID, jsonBody[itemPatch]))
	mux.Handle("POST /items/{id}/comment", g.forward(sharer, pathID, jsonBody[commentCreate]))

	mux.Handle("POST /bookings", g.forward(sharer, jsonBody[bookingCreate]))
	mux.Handle("PATCH /bookings/{id}", g.forward(sharer, pathID, approved))
	mux.Handle("GET /bookings/{id}", g.forward(sharer, pathID))
	mux.Handle("GET /bookings", g.forward(sharer, state, paging))
	mux.Handle("GET /bookings/owner", g.forward(sharer, state, paging))

	mux.Handle("POST /requests", g.forward(sharer, jsonBody[requestCreate]))
	mux.Handle("GET /requests", g.forward(sharer))
	mux.Handle("GET /requests/all", g.forward(sharer, paging))
	mux.Handle("GET /requests/{id}", g.forward(sharer, pathID))

	return api.LoggingMiddleware(g.logger)(g.limiter.middleware(mux))
}

// forward runs checks against the request and proxies it when all pass.
func (g *Gateway) forward(checks ...check) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				jsonError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			jsonError(w, http.StatusBadRequest, "reading request body failed")
			return
		}

		for _, c := range checks {
			if err := c(g.validate, r, body); err != nil {
				jsonError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		r.ContentLength = int64(len(body))
		r.Header.Set(api.RequestIDHeader, api.RequestID(r.Context()))
		r.Header.Del("Authorization")

		userID, ok := sharerIDOf(r)
		if !ok {
			r.Header.Del(api.UserIDHeader)
		}
		if g.secret != "" {
			token, err := auth.GenerateToken(g.secret, userID)
			if err != nil {
				g.logger.Error("generating service token", zap.Error(err))
				jsonError(w, http.StatusInternalServerError, "internal error")
				return
			}
			r.Header.Set("Authorization", "Bearer "+token)
		}

		g.proxy.ServeHTTP(w, r)
	})
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

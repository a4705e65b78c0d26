// Package api exposes the order service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	gootel "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"orderdesk/pkg/logger"
	"orderdesk/pkg/order"
	"orderdesk/pkg/otel"
	"orderdesk/pkg/session"
)

// Sessions creates and resolves login sessions.
type Sessions interface {
	Create(ctx context.Context, user string) (string, error)
	Lookup(ctx context.Context, sid string) (string, error)
}

// Config holds the dependencies of a Server. A nil Sessions turns off
// login and leaves /orders open.
type Config struct {
	Service    *order.Service
	Sessions   Sessions
	SessionTTL time.Duration
	Log        *logger.Logger
	Tracer     trace.Tracer
}

// Server serves the HTTP API.
type Server struct {
	svc      *order.Service
	sessions Sessions
	ttl      time.Duration
	log      *logger.Logger
	tracer   trace.Tracer
}

const sessionCookie = "session_id"

type userKey struct{}

// New returns a Server.
func New(cfg Config) *Server {
	s := &Server{
		svc:      cfg.Service,
		sessions: cfg.Sessions,
		ttl:      cfg.SessionTTL,
		log:      cfg.Log,
		tracer:   cfg.Tracer,
	}
	if s.ttl <= 0 {
		s.ttl = time.Hour
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.tracer == nil {
		s.tracer = gootel.Tracer("orderdesk")
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.UseEncodedPath()
	r.Use(s.traceMiddleware)
	if s.sessions != nil {
		r.HandleFunc("/login", s.loginHandler).Methods(http.MethodPost)
	}
	r.HandleFunc("/menu", s.menuHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/orders").Subrouter()
	if s.sessions != nil {
		api.Use(s.authMiddleware)
	}
	api.HandleFunc("", s.placeOrderHandler).Methods(http.MethodPost)
	api.HandleFunc("", s.listOrdersHandler).Methods(http.MethodGet)
	api.HandleFunc("/customers/{customer}", s.removeOrdersHandler).Methods(http.MethodDelete)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	return r
}

// UserFromContext returns the logged in user set by the auth middleware.
func UserFromContext(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(userKey{}).(string)
	return u, ok
}

// loginHandler handles staff login and session creation.
// @Summary Login
// @Description Authenticates staff and sets session cookie
// @Accept json
// @Produce json
// @Param creds body loginRequest true "Credentials"
// @Success 200
// @Failure 400 {object} errorResponse
// @Router /login [post]
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "loginHandler")
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		writeError(w, http.StatusBadRequest, "invalid credentials")
		return
	}
	sid, err := s.sessions.Create(ctx, req.Username)
	if err != nil {
		s.log.Error(ctx, "create session", "error", err)
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: sid, Path: "/", Expires: time.Now().Add(s.ttl), HttpOnly: true})
	w.WriteHeader(http.StatusOK)
}

// authMiddleware ensures a valid session exists.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		user, err := s.sessions.Lookup(r.Context(), c.Value)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				s.log.Error(r.Context(), "lookup session", "error", err)
			}
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), userKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// menuHandler lists the menu.
// @Summary List menu
// @Produce json
// @Success 200 {array} string
// @Router /menu [get]
func (s *Server) menuHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "menuHandler")
	defer span.End()

	writeJSON(w, http.StatusOK, s.svc.Menu().Items())
}

// placeOrderHandler records a new order.
// @Summary Place order
// @Accept json
// @Produce json
// @Param order body order.Order true "Order"
// @Success 201 {object} order.Order
// @Failure 400 {object} errorResponse
// @Failure 422 {object} errorResponse
// @Security ApiKeyAuth
// @Router /orders [post]
func (s *Server) placeOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "placeOrderHandler")
	defer span.End()

	var req order.Order
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Customer == "" {
		writeError(w, http.StatusBadRequest, "customer is required")
		return
	}
	span.SetAttributes(attribute.String("customer", req.Customer), attribute.String("food", req.Food))

	o, err := s.svc.Place(ctx, req.Customer, req.Food)
	if err != nil {
		if errors.Is(err, order.ErrNotOnMenu) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.log.Error(ctx, "place order", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// listOrdersHandler lists orders.
// @Summary List orders
// @Produce json
// @Success 200 {array} order.Order
// @Security ApiKeyAuth
// @Router /orders [get]
func (s *Server) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listOrdersHandler")
	defer span.End()

	orders, err := s.svc.List(ctx)
	if err != nil {
		s.log.Error(ctx, "list orders", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// removeOrdersHandler removes every order placed by a customer.
// @Summary Remove customer orders
// @Produce json
// @Param customer path string true "Customer name"
// @Success 200 {object} removeResponse
// @Security ApiKeyAuth
// @Router /orders/customers/{customer} [delete]
func (s *Server) removeOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "removeOrdersHandler")
	defer span.End()

	customer, err := url.PathUnescape(mux.Vars(r)["customer"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer")
		return
	}
	n, err := s.svc.Cancel(ctx, customer)
	if err != nil {
		s.log.Error(ctx, "remove orders", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, removeResponse{Removed: n})
}

func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := gootel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx = otel.InjectTracing(ctx, s.tracer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// loginRequest represents login credentials.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type removeResponse struct {
	Removed int `json:"removed"`
}

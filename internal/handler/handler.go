// Package handler exposes the discount engine over HTTP: the function
// evaluation endpoints the platform invokes, the gift-offer endpoint the
// checkout component polls, and the authenticated settings CRUD API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/bloomcart/discount-engine/internal/domain/settings"
	"github.com/bloomcart/discount-engine/pkg/httpmiddleware"
)

// maxBodyBytes caps the size of accepted request bodies.
const maxBodyBytes = 1 << 20

// Handler serves the public API, delegating business logic to the domain
// layer.
type Handler struct {
	settings *settings.Service
	lg       *zap.Logger

	tracer      trace.Tracer
	evaluations metric.Int64Counter
}

// NewHandler constructs a Handler with the required domain dependencies and
// telemetry providers.
func NewHandler(
	svc *settings.Service,
	lg *zap.Logger,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
) (*Handler, error) {
	meter := mp.Meter("discount-engine/handler")
	evaluations, err := meter.Int64Counter("discount_evaluations_total",
		metric.WithDescription("Discount function evaluations served, by kind"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create evaluations counter")
	}

	return &Handler{
		settings:    svc,
		lg:          lg,
		tracer:      tp.Tracer("discount-engine/handler"),
		evaluations: evaluations,
	}, nil
}

// Register mounts all API routes on mux. The settings CRUD routes are wrapped
// with auth; the function and gift-offer routes are platform/checkout facing
// and stay open.
func (h *Handler) Register(mux *http.ServeMux, auth httpmiddleware.Middleware) {
	mux.HandleFunc("POST /api/function/{kind}", h.EvaluateFunction)
	mux.HandleFunc("GET /api/gift-offer", h.GetGiftOffer)

	mux.Handle("POST /api/discount", auth(http.HandlerFunc(h.CreateSetting)))
	mux.Handle("GET /api/discount", auth(http.HandlerFunc(h.ListSettings)))
	mux.Handle("GET /api/discount/{id}", auth(http.HandlerFunc(h.GetSetting)))
	mux.Handle("PUT /api/discount/{id}", auth(http.HandlerFunc(h.UpdateSetting)))
	mux.Handle("DELETE /api/discount/{id}", auth(http.HandlerFunc(h.DeleteSetting)))
}

// errorResponse is the JSON error envelope shared by all endpoints.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Code: status, Message: message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.lg.Warn("write response", zap.Error(err))
	}
}

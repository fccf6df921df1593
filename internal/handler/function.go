package handler

import (
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/bloomcart/discount-engine/internal/domain/cart"
	"github.com/bloomcart/discount-engine/internal/domain/discount"
)

// EvaluateFunction runs one discount function against a cart snapshot.
// The body is the host's function input ({cart, discountNode}); the response
// is the decision document for the platform to apply.
func (h *Handler) EvaluateFunction(w http.ResponseWriter, r *http.Request) {
	kind := discount.Kind(r.PathValue("kind"))
	if !discount.ValidKind(kind) {
		h.writeError(w, http.StatusNotFound, "unknown discount function")
		return
	}

	ctx, span := h.tracer.Start(r.Context(), "EvaluateFunction")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "reading request body")
		return
	}

	input, err := cart.DecodeInput(body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "malformed function input")
		return
	}

	decision, err := discount.Evaluate(kind, input)
	if err != nil {
		// ValidKind passed above, so this is a server-side inconsistency.
		h.lg.Error("evaluate", zap.String("kind", string(kind)), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "evaluation failed")
		return
	}

	h.evaluations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.Bool("applied", len(decision.Discounts) > 0),
	))

	payload, err := decision.MarshalJSON()
	if err != nil {
		h.lg.Error("encode decision", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "encoding decision")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		h.lg.Warn("write response", zap.Error(err))
	}
}

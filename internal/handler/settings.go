package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/bloomcart/discount-engine/internal/domain/discount"
	"github.com/bloomcart/discount-engine/internal/domain/settings"
)

// settingRequest is the create/update body for a discount setting. The
// configuration is an arbitrary JSON object stored verbatim.
type settingRequest struct {
	Kind               string          `json:"kind"`
	Title              string          `json:"title"`
	Configuration      json.RawMessage `json:"configuration"`
	ShopifyDiscountGID string          `json:"shopify_discount_gid"`
}

// settingResponse mirrors a stored setting back to the admin UI.
type settingResponse struct {
	ID                 string          `json:"id"`
	Kind               string          `json:"kind"`
	Title              string          `json:"title"`
	Configuration      json.RawMessage `json:"configuration"`
	MinimumOrder       string          `json:"minimum_order"`
	ShopifyDiscountGID string          `json:"shopify_discount_gid,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func toSettingResponse(s *settings.Setting) settingResponse {
	return settingResponse{
		ID:                 s.ID,
		Kind:               string(s.Kind),
		Title:              s.Title,
		Configuration:      json.RawMessage(s.Configuration),
		MinimumOrder:       s.MinimumOrder.StringFixed(2),
		ShopifyDiscountGID: s.ShopifyDiscountGID,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func (h *Handler) decodeSettingRequest(w http.ResponseWriter, r *http.Request) (settings.SaveRequest, bool) {
	var req settingRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "malformed request body")
		return settings.SaveRequest{}, false
	}
	return settings.SaveRequest{
		Kind:               discount.Kind(req.Kind),
		Title:              req.Title,
		Configuration:      string(req.Configuration),
		ShopifyDiscountGID: req.ShopifyDiscountGID,
	}, true
}

// CreateSetting saves a new discount setting.
func (h *Handler) CreateSetting(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSettingRequest(w, r)
	if !ok {
		return
	}

	setting, err := h.settings.Create(r.Context(), req)
	if err != nil {
		h.mapSettingsError(w, err, "create setting")
		return
	}
	h.writeJSON(w, http.StatusCreated, toSettingResponse(setting))
}

// GetSetting returns one setting by ID.
func (h *Handler) GetSetting(w http.ResponseWriter, r *http.Request) {
	setting, err := h.settings.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.mapSettingsError(w, err, "get setting")
		return
	}
	h.writeJSON(w, http.StatusOK, toSettingResponse(setting))
}

// UpdateSetting replaces an existing setting's configuration.
func (h *Handler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSettingRequest(w, r)
	if !ok {
		return
	}

	setting, err := h.settings.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.mapSettingsError(w, err, "update setting")
		return
	}
	h.writeJSON(w, http.StatusOK, toSettingResponse(setting))
}

// DeleteSetting removes a setting.
func (h *Handler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.mapSettingsError(w, err, "delete setting")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSettings returns every saved setting, most recently updated first.
func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	list, err := h.settings.List(r.Context())
	if err != nil {
		h.mapSettingsError(w, err, "list settings")
		return
	}

	out := make([]settingResponse, len(list))
	for i := range list {
		out[i] = toSettingResponse(&list[i])
	}
	h.writeJSON(w, http.StatusOK, out)
}

// mapSettingsError converts domain errors to the JSON error envelope.
func (h *Handler) mapSettingsError(w http.ResponseWriter, err error, op string) {
	var ukErr *settings.UnknownKindError
	switch {
	case errors.Is(err, settings.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "discount setting not found")
	case errors.As(err, &ukErr):
		h.writeError(w, http.StatusUnprocessableEntity, ukErr.Error())
	default:
		h.lg.Error(op, zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

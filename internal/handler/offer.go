package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bloomcart/discount-engine/internal/domain/settings"
)

// giftOfferResponse is the payload the checkout component polls for.
type giftOfferResponse struct {
	MinimumOrder decimal.Decimal    `json:"minimum_order"`
	Products     []giftOfferProduct `json:"products"`
}

type giftOfferProduct struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"img_url"`
}

// GetGiftOffer serves the configuration for the checkout gift offer: the
// qualifying minimum order and the gift products to show. 404 when the
// merchant has not saved an order-kind discount yet.
func (h *Handler) GetGiftOffer(w http.ResponseWriter, r *http.Request) {
	offer, products, err := h.settings.GiftOffer(r.Context())
	if err != nil {
		if errors.Is(err, settings.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "no gift offer configured")
			return
		}
		h.lg.Error("gift offer", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "loading gift offer")
		return
	}

	resp := giftOfferResponse{
		MinimumOrder: offer.MinimumOrder,
		Products:     make([]giftOfferProduct, len(products)),
	}
	for i, p := range products {
		resp.Products[i] = giftOfferProduct{ID: p.ID, Title: p.Title, ImageURL: p.ImageURL}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestSettings_RequiresAPIKey(t *testing.T) {
	resp := doGet(t, "/api/discount")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", resp.StatusCode)
	}

	wrong := doGetWithAuth(t, "/api/discount", "not-the-key")
	defer wrong.Body.Close()

	if wrong.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong key, got %d", wrong.StatusCode)
	}
}

func TestSettings_CreateAndGet(t *testing.T) {
	created := createSetting(t, settingRequest{
		Kind:          "product-discount",
		Title:         "Bulk deal",
		Configuration: json.RawMessage(`{"quantity": 3, "percentage": 15}`),
	})

	resp := doGetWithAuth(t, "/api/discount/"+created.ID, testAPIKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	got := decodeJSON[settingResponse](t, resp)
	if got.Kind != "product-discount" || got.Title != "Bulk deal" {
		t.Errorf("unexpected setting: %+v", got)
	}

	deleteSetting(t, created.ID)
}

func TestSettings_UnknownKindRejected(t *testing.T) {
	resp := doPostWithAuth(t, "/api/discount", settingRequest{
		Kind:          "loyalty-discount",
		Configuration: json.RawMessage(`{}`),
	}, testAPIKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestSettings_MinimumOrderDenormalized(t *testing.T) {
	created := createSetting(t, settingRequest{
		Kind:          "order-discount",
		Title:         "Gift over 75",
		Configuration: json.RawMessage(`{"minimum_order": 75.5, "quantity": 1, "percentage": 100}`),
	})
	defer deleteSetting(t, created.ID)

	if created.MinimumOrder != "75.50" {
		t.Errorf("minimum_order: got %q, want 75.50", created.MinimumOrder)
	}
}

func TestGiftOffer_FromLatestOrderSetting(t *testing.T) {
	created := createSetting(t, settingRequest{
		Kind:  "order-discount",
		Title: "Free tote over 50",
		Configuration: json.RawMessage(
			`{"minimum_order": 50, "quantity": 1, "percentage": 100, "variant_ids": ["` + seededToteVariant + `"]}`),
	})
	defer deleteSetting(t, created.ID)

	newer := createSetting(t, settingRequest{
		Kind:  "order-discount",
		Title: "Free tote over 80",
		Configuration: json.RawMessage(
			`{"minimum_order": 80, "quantity": 1, "percentage": 100, "variant_ids": ["` + seededToteVariant + `"]}`),
	})
	defer deleteSetting(t, newer.ID)

	resp := doGet(t, "/api/gift-offer")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	offer := decodeJSON[giftOfferResponse](t, resp)
	if offer.MinimumOrder.String() != "80" {
		t.Errorf("minimum_order: got %s, want 80 from the newest order setting", offer.MinimumOrder)
	}
	if len(offer.Products) != 1 {
		t.Fatalf("expected 1 gift product, got %d", len(offer.Products))
	}
	if offer.Products[0].Title != "Canvas Tote Bag" {
		t.Errorf("gift title: got %q, resolution from the seeded catalog failed", offer.Products[0].Title)
	}
	if offer.Products[0].ImageURL == "" {
		t.Error("gift img_url missing")
	}
}

func createSetting(t *testing.T, req settingRequest) settingResponse {
	t.Helper()

	resp := doPostWithAuth(t, "/api/discount", req, testAPIKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create setting: expected 201, got %d", resp.StatusCode)
	}
	return decodeJSON[settingResponse](t, resp)
}

func deleteSetting(t *testing.T, id string) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete, baseURL+"/api/discount/"+id, nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set(apiKeyHeader, testAPIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("delete setting: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete setting: expected 204, got %d", resp.StatusCode)
	}
}

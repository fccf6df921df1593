package shopifyadmin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient points a Client at a local test server.
func testClient(srv *httptest.Server) *Client {
	c := NewClient("example.myshopify.com", "shpat_test")
	c.endpoint = srv.URL
	c.httpClient = srv.Client()
	return c
}

func TestClient_PublishConfiguration(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		_, _ = w.Write([]byte(`{"data":{"metafieldsSet":{"metafields":[{"id":"gid://shopify/Metafield/1","key":"function-configuration"}],"userErrors":[]}}}`))
	}))
	defer srv.Close()

	c := testClient(srv)
	err := c.PublishConfiguration(context.Background(),
		"gid://shopify/DiscountAutomaticNode/42",
		`{"quantity":2,"percentage":10}`,
	)
	require.NoError(t, err)

	query, _ := captured["query"].(string)
	assert.True(t, strings.Contains(query, "metafieldsSet"))

	vars := captured["variables"].(map[string]any)
	fields := vars["metafields"].([]any)
	require.Len(t, fields, 1)
	field := fields[0].(map[string]any)
	assert.Equal(t, "gid://shopify/DiscountAutomaticNode/42", field["ownerId"])
	assert.Equal(t, "json", field["type"])
	assert.Equal(t, `{"quantity":2,"percentage":10}`, field["value"], "configuration passed as the raw string")
}

func TestClient_PublishConfigurationUserError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"metafieldsSet":{"metafields":[],"userErrors":[{"field":["metafields"],"message":"Owner does not exist"}]}}}`))
	}))
	defer srv.Close()

	err := testClient(srv).PublishConfiguration(context.Background(), "gid://bad", "{}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Owner does not exist")
}

func TestClient_PublishConfigurationGraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"Throttled"}]}`))
	}))
	defer srv.Close()

	err := testClient(srv).PublishConfiguration(context.Background(), "gid://x", "{}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Throttled")
}

func TestClient_PublishConfigurationHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := testClient(srv).PublishConfiguration(context.Background(), "gid://x", "{}")
	assert.Error(t, err)
}

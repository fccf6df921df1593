// Package shopifyadmin is a minimal Shopify Admin GraphQL client used to
// mirror saved discount configuration into the platform's metafield for the
// corresponding discount node.
package shopifyadmin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-faster/errors"
)

const (
	apiVersion = "2023-10"

	metafieldNamespace = "discount-settings"
	metafieldKey       = "function-configuration"

	metafieldsSetMutation = `
mutation SetConfiguration($metafields: [MetafieldsSetInput!]!) {
  metafieldsSet(metafields: $metafields) {
    metafields {
      id
      key
    }
    userErrors {
      field
      message
    }
  }
}`
)

// Client talks to one shop's Admin GraphQL API.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	accessToken string
}

// NewClient creates a client for the given shop domain
// (e.g. "example.myshopify.com") and Admin API access token.
func NewClient(shopDomain, accessToken string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		endpoint:    fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shopDomain, apiVersion),
		accessToken: accessToken,
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type metafieldsSetResponse struct {
	Data struct {
		MetafieldsSet struct {
			UserErrors []userError `json:"userErrors"`
		} `json:"metafieldsSet"`
	} `json:"data"`
	Errors []graphqlError `json:"errors,omitempty"`
}

// PublishConfiguration writes the configuration JSON to the discount node's
// metafield via metafieldsSet. The value is stored as the raw string, the
// same shape the checkout engine later hands back to the evaluators.
func (c *Client) PublishConfiguration(ctx context.Context, ownerGID string, configuration string) error {
	req := graphqlRequest{
		Query: metafieldsSetMutation,
		Variables: map[string]any{
			"metafields": []map[string]any{{
				"ownerId":   ownerGID,
				"namespace": metafieldNamespace,
				"key":       metafieldKey,
				"type":      "json",
				"value":     configuration,
			}},
		},
	}

	var resp metafieldsSetResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return err
	}

	if len(resp.Errors) > 0 {
		return errors.Errorf("graphql error: %s", resp.Errors[0].Message)
	}
	if ue := resp.Data.MetafieldsSet.UserErrors; len(ue) > 0 {
		return errors.Errorf("metafieldsSet rejected: %s", ue[0].Message)
	}
	return nil
}

func (c *Client) do(ctx context.Context, reqBody graphqlRequest, out any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "admin api request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("admin api returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

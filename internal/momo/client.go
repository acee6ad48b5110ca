// Package momo talks to the MTN MoMo collections sandbox.
package momo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type Client struct {
	baseURL         string
	apiUser         string
	apiKey          string
	subscriptionKey string
	targetEnv       string
	httpClient      *http.Client
}

func NewClient(baseURL, apiUser, apiKey, subscriptionKey string) *Client {
	return &Client{
		baseURL:         baseURL,
		apiUser:         apiUser,
		apiKey:          apiKey,
		subscriptionKey: subscriptionKey,
		targetEnv:       "sandbox",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type PayRequest struct {
	Amount       string
	Currency     string
	ExternalID   string
	Phone        string
	PayerMessage string
	PayeeNote    string
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/collection/token/", nil)
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}

	auth := base64.StdEncoding.EncodeToString([]byte(c.apiUser + ":" + c.apiKey))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed with status: %d", resp.StatusCode)
	}

	var result tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	return result.AccessToken, nil
}

// RequestToPay initiates a collection and returns the X-Reference-Id
// the provider will report status under.
func (c *Client) RequestToPay(ctx context.Context, pay PayRequest) (string, error) {
	token, err := c.token(ctx)
	if err != nil {
		return "", err
	}

	referenceID := uuid.NewString()

	body, err := json.Marshal(map[string]any{
		"amount":     pay.Amount,
		"currency":   pay.Currency,
		"externalId": pay.ExternalID,
		"payer": map[string]string{
			"partyIdType": "MSISDN",
			"partyId":     pay.Phone,
		},
		"payerMessage": pay.PayerMessage,
		"payeeNote":    pay.PayeeNote,
	})
	if err != nil {
		return "", fmt.Errorf("marshal requesttopay body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/collection/v1_0/requesttopay", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create requesttopay request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Reference-Id", referenceID)
	req.Header.Set("X-Target-Environment", c.targetEnv)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do requesttopay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("requesttopay failed with status: %d", resp.StatusCode)
	}

	return referenceID, nil
}

package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// GatewayOrder is the payment-provider-side transaction record returned when
// an order is registered for collection. Amount is in the gateway's minor
// currency unit.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type PaymentGateway interface {
	CreateOrder(amount float64, receipt string) (*GatewayOrder, error)
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
}

type razorpayGateway struct {
	client *resty.Client
	secret string
}

// NewPaymentGateway builds a Razorpay client from RAZORPAY_KEY_ID,
// RAZORPAY_KEY_SECRET and optionally RAZORPAY_BASE_URL.
func NewPaymentGateway() PaymentGateway {
	baseURL := os.Getenv("RAZORPAY_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.razorpay.com/v1"
	}
	return NewPaymentGatewayWithConfig(baseURL, os.Getenv("RAZORPAY_KEY_ID"), os.Getenv("RAZORPAY_KEY_SECRET"))
}

func NewPaymentGatewayWithConfig(baseURL, keyID, keySecret string) PaymentGateway {
	client := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(keyID, keySecret).
		SetTimeout(30 * time.Second)
	return &razorpayGateway{client: client, secret: keySecret}
}

func (g *razorpayGateway) CreateOrder(amount float64, receipt string) (*GatewayOrder, error) {
	requestBody := map[string]any{
		"amount":   int64(math.Round(amount * 100)),
		"currency": "INR",
		"receipt":  receipt,
	}

	resp, err := g.client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(requestBody).
		Post("/orders")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("gateway order request failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var order GatewayOrder
	if err := json.Unmarshal(resp.Body(), &order); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("gateway order id missing in response: %s", string(resp.Body()))
	}
	return &order, nil
}

// VerifySignature recomputes the HMAC-SHA256 of "<orderID>|<paymentID>"
// keyed by the gateway secret. Comparison is constant-time.
func (g *razorpayGateway) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

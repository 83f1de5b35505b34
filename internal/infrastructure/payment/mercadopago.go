package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apppayment "github.com/shop/backend/internal/application/payment"
	"github.com/shop/backend/internal/infrastructure/config"
)

const (
	preferencesPath = "/checkout/preferences"
	paymentsPath    = "/v1/payments/%s"

	currencyARS = "ARS"
)

// MercadoPagoAdapter implements the payment Gateway against the Mercado Pago
// REST API
type MercadoPagoAdapter struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewMercadoPagoAdapter creates a Mercado Pago gateway adapter
func NewMercadoPagoAdapter(cfg config.PaymentConfig, logger *zap.Logger) *MercadoPagoAdapter {
	return &MercadoPagoAdapter{
		baseURL:     cfg.GatewayBaseURL,
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
	}
}

type preferenceItem struct {
	Title      string          `json:"title"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	CurrencyID string          `json:"currency_id"`
}

type preferencePayer struct {
	Email string `json:"email,omitempty"`
}

type createPreferenceBody struct {
	Items             []preferenceItem `json:"items"`
	Payer             *preferencePayer `json:"payer,omitempty"`
	ExternalReference string           `json:"external_reference"`
}

type preferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

type paymentResponse struct {
	ID                int64           `json:"id"`
	Status            string          `json:"status"`
	StatusDetail      string          `json:"status_detail"`
	ExternalReference string          `json:"external_reference"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	Payer             struct {
		Email string `json:"email"`
	} `json:"payer"`
}

// CreatePreference creates a hosted checkout for an order
func (a *MercadoPagoAdapter) CreatePreference(ctx context.Context, req apppayment.PreferenceRequest) (*apppayment.Preference, error) {
	body := createPreferenceBody{
		Items: []preferenceItem{{
			Title:      req.Title,
			Quantity:   1,
			UnitPrice:  req.Amount,
			CurrencyID: currencyARS,
		}},
		ExternalReference: req.ExternalReference,
	}
	if req.PayerEmail != "" {
		body.Payer = &preferencePayer{Email: req.PayerEmail}
	}

	var resp preferenceResponse
	if err := a.doRequest(ctx, http.MethodPost, preferencesPath, body, &resp); err != nil {
		return nil, err
	}

	return &apppayment.Preference{
		ID:          resp.ID,
		CheckoutURL: resp.InitPoint,
	}, nil
}

// GetPayment fetches the current state of a payment
func (a *MercadoPagoAdapter) GetPayment(ctx context.Context, paymentID string) (*apppayment.PaymentInfo, error) {
	var resp paymentResponse
	path := fmt.Sprintf(paymentsPath, paymentID)
	if err := a.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	return &apppayment.PaymentInfo{
		ID:                fmt.Sprintf("%d", resp.ID),
		Status:            mapGatewayStatus(resp.Status),
		StatusDetail:      resp.StatusDetail,
		ExternalReference: resp.ExternalReference,
		PayerEmail:        resp.Payer.Email,
		Amount:            resp.TransactionAmount,
	}, nil
}

// mapGatewayStatus normalizes Mercado Pago payment statuses to the three the
// application distinguishes. Everything not terminal stays pending.
func mapGatewayStatus(status string) string {
	switch status {
	case "approved":
		return apppayment.GatewayStatusApproved
	case "rejected", "cancelled", "refunded", "charged_back":
		return apppayment.GatewayStatusRejected
	default:
		return apppayment.GatewayStatusPending
	}
}

func (a *MercadoPagoAdapter) doRequest(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("mercadopago: failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("mercadopago: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		// The API replays identical preference creations instead of
		// duplicating them when the key repeats.
		req.Header.Set("X-Idempotency-Key", uuid.NewString())
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mercadopago: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("mercadopago: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.logger.Warn("gateway request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("mercadopago: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("mercadopago: failed to parse response: %w", err)
		}
	}
	return nil
}

var _ apppayment.Gateway = (*MercadoPagoAdapter)(nil)

package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apppayment "github.com/shop/backend/internal/application/payment"
	"github.com/shop/backend/internal/infrastructure/config"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *MercadoPagoAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewMercadoPagoAdapter(config.PaymentConfig{
		GatewayBaseURL: server.URL,
		AccessToken:    "TEST-TOKEN",
		Timeout:        5 * time.Second,
	}, zap.NewNop())
}

func TestCreatePreference(t *testing.T) {
	var gotAuth string
	var gotBody createPreferenceBody

	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, preferencesPath, r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(preferenceResponse{
			ID:        "pref-123",
			InitPoint: "https://gateway.example/checkout/pref-123",
		})
	})

	pref, err := adapter.CreatePreference(context.Background(), apppayment.PreferenceRequest{
		ExternalReference: "9b7e6a40-0000-0000-0000-000000000001",
		Title:             "Pedido PN20260315134502",
		Amount:            decimal.RequireFromString("1750.00"),
		PayerEmail:        "ana@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "pref-123", pref.ID)
	assert.Equal(t, "https://gateway.example/checkout/pref-123", pref.CheckoutURL)
	assert.Equal(t, "Bearer TEST-TOKEN", gotAuth)
	require.Len(t, gotBody.Items, 1)
	assert.Equal(t, "Pedido PN20260315134502", gotBody.Items[0].Title)
	assert.Equal(t, currencyARS, gotBody.Items[0].CurrencyID)
	assert.Equal(t, "9b7e6a40-0000-0000-0000-000000000001", gotBody.ExternalReference)
}

func TestGetPaymentMapsStatuses(t *testing.T) {
	cases := []struct {
		gateway string
		want    string
	}{
		{"approved", apppayment.GatewayStatusApproved},
		{"rejected", apppayment.GatewayStatusRejected},
		{"cancelled", apppayment.GatewayStatusRejected},
		{"in_process", apppayment.GatewayStatusPending},
		{"pending", apppayment.GatewayStatusPending},
	}

	for _, tc := range cases {
		t.Run(tc.gateway, func(t *testing.T) {
			adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{
					"id":                 42,
					"status":             tc.gateway,
					"status_detail":      "detail",
					"external_reference": "ref-1",
					"transaction_amount": "1750.00",
					"payer":              map[string]string{"email": "ana@example.com"},
				})
			})

			info, err := adapter.GetPayment(context.Background(), "42")

			require.NoError(t, err)
			assert.Equal(t, "42", info.ID)
			assert.Equal(t, tc.want, info.Status)
			assert.Equal(t, "ana@example.com", info.PayerEmail)
		})
	}
}

func TestGetPaymentSurfacesGatewayErrors(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"payment not found"}`))
	})

	_, err := adapter.GetPayment(context.Background(), "42")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

package paystack_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chatorder/pkg/paystack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, handler http.HandlerFunc) *paystack.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return paystack.NewClient(paystack.Config{
		BaseURL:   srv.URL + "/",
		SecretKey: "sk_test_123",
		Timeout:   2 * time.Second,
	})
}

func TestClient_Initialize(t *testing.T) {
	var got map[string]any
	client := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{
			"authorization_url":"https://checkout.paystack.com/abc","access_code":"abc","reference":"ref-1"}}`))
	})

	auth, err := client.Initialize(paystack.InitializeRequest{
		Email:   "guest@example.com",
		Amount:  3000,
		Summary: "Jollof Rice x2 – 3000",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.paystack.com/abc", auth.AuthorizationURL)
	assert.Equal(t, "ref-1", auth.Reference)
	assert.Equal(t, float64(300000), got["amount"])
	assert.Equal(t, "NGN", got["currency"])
	assert.Equal(t, "guest@example.com", got["email"])

	fields := got["metadata"].(map[string]any)["custom_fields"].([]any)
	require.Len(t, fields, 1)
	assert.Equal(t, "Jollof Rice x2 – 3000", fields[0].(map[string]any)["value"])
}

func TestClient_InitializeRejectedByGateway(t *testing.T) {
	client := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	})

	_, err := client.Initialize(paystack.InitializeRequest{Email: "g@example.com", Amount: 100})
	assert.ErrorIs(t, err, paystack.ErrGateway)
	assert.Contains(t, err.Error(), "Invalid key")
}

func TestClient_InitializeRejectsNonPositiveAmount(t *testing.T) {
	client := paystack.NewClient(paystack.Config{})

	_, err := client.Initialize(paystack.InitializeRequest{Email: "g@example.com", Amount: 0})
	assert.ErrorIs(t, err, paystack.ErrGateway)
}

func TestClient_Verify(t *testing.T) {
	client := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transaction/verify/ref-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":true,"message":"Verification successful","data":{
			"status":"success","reference":"ref-1","amount":300000,"currency":"NGN",
			"channel":"card","paid_at":"2026-10-16T09:30:00.000Z"}}`))
	})

	v, err := client.Verify("ref-1")
	require.NoError(t, err)

	assert.Equal(t, "success", v.Status)
	assert.Equal(t, int64(3000), v.WholeAmount())
	assert.Equal(t, "card", v.Channel)
	assert.Equal(t, 2026, v.PaidAt.Year())
}

func TestClient_VerifyMalformedResponse(t *testing.T) {
	client := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := client.Verify("ref-1")
	assert.ErrorIs(t, err, paystack.ErrGateway)
}

func TestClient_VerifyMissingData(t *testing.T) {
	client := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":true,"message":"ok","data":null}`))
	})

	_, err := client.Verify("ref-1")
	assert.ErrorIs(t, err, paystack.ErrGateway)
}

func TestClient_VerifyRequiresReference(t *testing.T) {
	client := paystack.NewClient(paystack.Config{})

	_, err := client.Verify("")
	assert.ErrorIs(t, err, paystack.ErrGateway)
}

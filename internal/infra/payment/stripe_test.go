//go:build unit

package payment_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"slot-reservation-engine/internal/domain/booking"
	"slot-reservation-engine/internal/infra/payment"
	"slot-reservation-engine/internal/pkg/config"
	"slot-reservation-engine/internal/pkg/errs"
	"slot-reservation-engine/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStripe struct {
	*httptest.Server
	mux *http.ServeMux
}

func newFakeStripe(t *testing.T) *fakeStripe {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &fakeStripe{Server: srv, mux: mux}
}

func (f *fakeStripe) gateway() *payment.StripeGateway {
	return payment.NewStripeGateway(config.PaymentConfig{
		SecretKey:      "sk_test_dummy",
		Currency:       "usd",
		BackendURL:     f.URL,
		RequestTimeout: 2 * time.Second,
	})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestStripeGateway_EnsurePayerIdentity(t *testing.T) {
	customerID := uuid.New()

	t.Run("existing payer is reused", func(t *testing.T) {
		f := newFakeStripe(t)
		f.mux.HandleFunc("/v1/customers/search", func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Query().Get("query"), customerID.String())
			writeJSON(w, http.StatusOK, `{"object":"search_result","url":"/v1/customers/search","has_more":false,"data":[{"id":"cus_existing","object":"customer"}]}`)
		})
		f.mux.HandleFunc("/v1/customers", func(w http.ResponseWriter, r *http.Request) {
			t.Error("customer must not be created when one exists")
		})

		id, err := f.gateway().EnsurePayerIdentity(context.Background(), commands.PayerProfile{CustomerID: customerID, Email: "a@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "cus_existing", id)
	})

	t.Run("missing payer is created with our id in metadata", func(t *testing.T) {
		f := newFakeStripe(t)
		f.mux.HandleFunc("/v1/customers/search", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"object":"search_result","url":"/v1/customers/search","has_more":false,"data":[]}`)
		})
		f.mux.HandleFunc("/v1/customers", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "a@example.com", r.PostForm.Get("email"))
			assert.Equal(t, customerID.String(), r.PostForm.Get("metadata[customer_id]"))
			assert.Equal(t, "payer-"+customerID.String(), r.Header.Get("Idempotency-Key"))
			writeJSON(w, http.StatusOK, `{"id":"cus_new","object":"customer"}`)
		})

		id, err := f.gateway().EnsurePayerIdentity(context.Background(), commands.PayerProfile{CustomerID: customerID, Email: "a@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "cus_new", id)
	})
}

func TestStripeGateway_OpenIntent(t *testing.T) {
	bookingID := uuid.New().String()
	amount, err := booking.NewMoney(22000)
	require.NoError(t, err)

	f := newFakeStripe(t)
	f.mux.HandleFunc("/v1/payment_intents", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "22000", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "cus_1", r.PostForm.Get("customer"))
		assert.Equal(t, bookingID, r.PostForm.Get("metadata[booking_id]"))
		assert.Equal(t, bookingID, r.Header.Get("Idempotency-Key"))
		writeJSON(w, http.StatusOK, `{"id":"pi_1","object":"payment_intent","client_secret":"pi_1_secret_x","status":"requires_payment_method","amount":22000,"currency":"usd"}`)
	})

	opened, err := f.gateway().OpenIntent(context.Background(), commands.OpenIntentParams{
		Amount:         amount,
		Currency:       "USD",
		PayerID:        "cus_1",
		IdempotencyKey: bookingID,
		Metadata:       map[string]string{"booking_id": bookingID},
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_1", opened.ID)
	assert.Equal(t, "pi_1_secret_x", opened.ClientSecret)
}

func TestStripeGateway_GetIntentStatus(t *testing.T) {
	f := newFakeStripe(t)
	f.mux.HandleFunc("/v1/payment_intents/pi_9", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		writeJSON(w, http.StatusOK, `{"id":"pi_9","object":"payment_intent","status":"succeeded","amount":5000,"currency":"usd"}`)
	})

	status, err := f.gateway().GetIntentStatus(context.Background(), "pi_9")
	require.NoError(t, err)
	assert.True(t, status.Succeeded())
	assert.Equal(t, int64(5000), status.Amount)
	assert.Equal(t, "usd", status.Currency)
}

func TestStripeGateway_CancelIntent(t *testing.T) {
	testCases := []struct {
		name              string
		status            int
		body              string
		wantErr           bool
		wantNotCancelable bool
	}{
		{name: "canceled", status: http.StatusOK, body: `{"id":"pi_1","object":"payment_intent","status":"canceled"}`},
		{
			name:              "already in a terminal state",
			status:            http.StatusBadRequest,
			body:              `{"error":{"type":"invalid_request_error","code":"payment_intent_unexpected_state","message":"already succeeded"}}`,
			wantErr:           true,
			wantNotCancelable: true,
		},
		{
			name:    "unknown intent",
			status:  http.StatusNotFound,
			body:    `{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such payment_intent"}}`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeStripe(t)
			f.mux.HandleFunc("/v1/payment_intents/pi_1/cancel", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, tc.body)
			})

			err := f.gateway().CancelIntent(context.Background(), "pi_1")
			if tc.wantErr {
				assert.Error(t, err, fmt.Sprintf("status %d", tc.status))
				assert.Equal(t, tc.wantNotCancelable, errs.Is(err, commands.ErrIntentNotCancelable), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

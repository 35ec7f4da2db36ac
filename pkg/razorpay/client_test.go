package razorpay_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/farmmart/farmmart-platform/pkg/razorpay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateOrder(t *testing.T) {

	t.Run("Success", func(t *testing.T) {

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/orders", r.URL.Path)

			username, password, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "key_id", username)
			assert.Equal(t, "key_secret", password)

			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, float64(32699), payload["amount"])
			assert.Equal(t, "INR", payload["currency"])

			json.NewEncoder(w).Encode(map[string]any{
				"id":       "order_abc123",
				"amount":   32699,
				"currency": "INR",
				"receipt":  payload["receipt"],
				"status":   "created",
			})
		}))
		defer server.Close()

		client := razorpay.NewClientWithBaseURL("key_id", "key_secret", server.URL, 5*time.Second)

		order, err := client.CreateOrder(t.Context(), 32699, "INR", "rcpt_1")

		assert.NoError(t, err)
		assert.Equal(t, "order_abc123", order.ID)
		assert.Equal(t, int64(32699), order.Amount)
		assert.Equal(t, "created", order.Status)
	})

	t.Run("Failure - Gateway Rejects The Order", func(t *testing.T) {

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"description":"Authentication failed"}}`))
		}))
		defer server.Close()

		client := razorpay.NewClientWithBaseURL("key_id", "bad_secret", server.URL, 5*time.Second)

		_, err := client.CreateOrder(t.Context(), 100, "INR", "rcpt_2")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})
}

func TestClient_VerifySignature(t *testing.T) {

	const keySecret = "key_secret"

	client := razorpay.NewClientWithBaseURL("key_id", keySecret, "http://unused", time.Second)

	sign := func(orderID, paymentID string) string {
		mac := hmac.New(sha256.New, []byte(keySecret))
		mac.Write([]byte(orderID + "|" + paymentID))
		return hex.EncodeToString(mac.Sum(nil))
	}

	t.Run("Success - Valid Signature", func(t *testing.T) {
		assert.True(t, client.VerifySignature("order_abc123", "pay_xyz", sign("order_abc123", "pay_xyz")))
	})

	t.Run("Failure - Tampered Payment ID", func(t *testing.T) {
		assert.False(t, client.VerifySignature("order_abc123", "pay_other", sign("order_abc123", "pay_xyz")))
	})

	t.Run("Failure - Wrong Key", func(t *testing.T) {

		mac := hmac.New(sha256.New, []byte("attacker_key"))
		mac.Write([]byte("order_abc123|pay_xyz"))

		assert.False(t, client.VerifySignature("order_abc123", "pay_xyz", hex.EncodeToString(mac.Sum(nil))))
	})
}

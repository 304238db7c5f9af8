package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSOLBalanceLamports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     any    `json:"id"`
			Method string `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getBalance", req.Method)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]any{
				"context": map[string]any{"slot": 1},
				"value":   42_000_000,
			},
		})
	}))
	defer srv.Close()

	c := NewSolanaClient(srv.URL)
	lamports, err := c.GetSOLBalanceLamports(context.Background(), solana.NewWallet().PublicKey().String())
	require.NoError(t, err)
	assert.EqualValues(t, 42_000_000, lamports)
}

func TestGetSOLBalanceLamportsInvalidAddress(t *testing.T) {
	c := NewSolanaClient("http://127.0.0.1:0")
	_, err := c.GetSOLBalanceLamports(context.Background(), "not-an-address")
	assert.Error(t, err)
}

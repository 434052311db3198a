package farcaster

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifiedAddresses_ParsesVerifications(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, verificationsPath, r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("fid"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"messages": [
				{"data": {"type": "MESSAGE_TYPE_VERIFICATION_ADD_ETH_ADDRESS", "verificationAddAddressBody": {"address": "0xaaa"}}},
				{"data": {"type": "MESSAGE_TYPE_VERIFICATION_REMOVE", "verificationAddAddressBody": {"address": "0xbbb"}}},
				{"data": {"type": "MESSAGE_TYPE_VERIFICATION_ADD_ETH_ADDRESS", "verificationAddAddressBody": {"address": "0xccc"}}}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	addresses, err := client.VerifiedAddresses(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, []string{"0xaaa", "0xccc"}, addresses)
}

func TestVerifiedAddresses_UnknownFID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"messages": []}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	addresses, err := client.VerifiedAddresses(context.Background(), 999)
	require.NoError(t, err)
	assert.Empty(t, addresses)
}

func TestVerifiedAddresses_HubError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "hub unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.VerifiedAddresses(context.Background(), 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestVerifiedAddresses_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.VerifiedAddresses(context.Background(), 42)
	require.Error(t, err)
}

package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const samplePayload = `[
  {
    "marketId": "1.23",
    "event": {"id": "E1", "name": "India v Australia"},
    "runners": [
      {"runnerName": "India", "lastPriceTraded": 1.85},
      {"runnerName": "Australia", "lastPriceTraded": 2.10},
      {"runnerName": "Suspended", "lastPriceTraded": 0}
    ]
  }
]`

func TestFetchMarkets(t *testing.T) {
	t.Run("normalizes provider payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/betfair/markets/4/1" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if r.Header.Get("sportbex-api-key") != "test-key" {
				t.Errorf("missing api key header")
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(samplePayload))
		}))
		defer srv.Close()

		c := New(srv.URL, "test-key")
		out, err := c.FetchMarkets(context.Background(), "4", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// runner com odd < 1.0 é descartado
		if len(out) != 2 {
			t.Fatalf("expected 2 odds, got %d", len(out))
		}
		if out[0].EventID != "E1" || out[0].MatchLabel != "India v Australia" {
			t.Errorf("bad normalization: %+v", out[0])
		}
		if out[0].Selection != "India" || out[0].Odd != 1.85 {
			t.Errorf("bad runner mapping: %+v", out[0])
		}
	})

	t.Run("provider error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		c := New(srv.URL, "bad-key")
		if _, err := c.FetchMarkets(context.Background(), "4", "1"); err == nil {
			t.Fatal("expected error on http 403")
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"unexpected": true}`))
		}))
		defer srv.Close()

		c := New(srv.URL, "k")
		if _, err := c.FetchMarkets(context.Background(), "4", "1"); err == nil {
			t.Fatal("expected decode error")
		}
	})
}

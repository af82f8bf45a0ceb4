package exchangerate

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/stretchr/testify/require"

    "github.com/debran19996/glint-server/internal/httpx"
)

func TestFetchRates_Success(t *testing.T) {
    var base, symbols string
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        base = r.URL.Query().Get("base")
        symbols = r.URL.Query().Get("symbols")
        w.Write([]byte(`{"base":"USD","rates":{"ILS":3.71,"EUR":0.92,"GBP":0.79,"JPY":149.2}}`))
    }))
    defer srv.Close()

    p := New(Config{URL: srv.URL}, httpx.New(2*time.Second))
    rates, err := p.FetchRates(t.Context(), []string{"ILS", "EUR", "GBP"})
    require.NoError(t, err)

    require.Equal(t, "USD", base)
    require.Equal(t, "ILS,EUR,GBP", symbols)
    require.Equal(t, 3.71, rates["ILS"])
    require.Equal(t, 0.92, rates["EUR"])
    require.Equal(t, 0.79, rates["GBP"])
}

func TestFetchRates_MissingCode_FailsCandidate(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte(`{"base":"USD","rates":{"ILS":3.71,"EUR":0.92}}`))
    }))
    defer srv.Close()

    p := New(Config{URL: srv.URL}, httpx.New(2*time.Second))
    _, err := p.FetchRates(t.Context(), []string{"ILS", "EUR", "GBP"})
    require.Error(t, err)
    require.Contains(t, err.Error(), "GBP")
}

func TestFetchRates_NonPositiveRate_Rejected(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte(`{"base":"USD","rates":{"ILS":0,"EUR":0.92,"GBP":0.79}}`))
    }))
    defer srv.Close()

    p := New(Config{URL: srv.URL}, httpx.New(2*time.Second))
    _, err := p.FetchRates(t.Context(), []string{"ILS", "EUR", "GBP"})
    require.Error(t, err)
}

func TestFetchRates_Non2xx(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        http.Error(w, "upstream down", http.StatusBadGateway)
    }))
    defer srv.Close()

    p := New(Config{URL: srv.URL}, httpx.New(2*time.Second))
    _, err := p.FetchRates(t.Context(), []string{"ILS"})
    require.Error(t, err)
}

package capgains

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tkos/capgains/ratestore"
)

// memStore is an in-memory ratestore.Store recording its traffic.
type memStore struct {
	recs map[string]ratestore.Record
	puts int
}

func newMemStore() *memStore { return &memStore{recs: make(map[string]ratestore.Record)} }

func (s *memStore) Get(_ context.Context, day string) (ratestore.Record, bool, error) {
	rec, ok := s.recs[day]
	return rec, ok, nil
}

func (s *memStore) Put(_ context.Context, day string, rec ratestore.Record) error {
	s.puts++
	s.recs[day] = rec
	return nil
}

// ratesZip builds an archive in the layout the ECB publishes.
func ratesZip(t *testing.T, csv string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("eurofxref-hist.csv")
	if err != nil {
		t.Fatalf("zip.Create() error = %v", err)
	}
	if _, err := f.Write([]byte(csv)); err != nil {
		t.Fatalf("zip write error = %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip.Close() error = %v", err)
	}
	return buf.Bytes()
}

const testCSV = "Date,USD,JPY,SEK\n" +
	"2023-06-02,1.25,150.00,10.0\n" +
	"2023-06-01,1.2,149.50,N/A\n"

func rateServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	payload := ratesZip(t, testCSV)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		w.Write(payload)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRates_Identity(t *testing.T) {
	rates := NewStaticRates() // empty table: identity must not look anything up
	rate, err := rates.GetRate(context.Background(), "USD", "USD", day(2023, time.June, 2))
	if err != nil {
		t.Fatalf("GetRate() error = %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("GetRate(USD, USD) = %s, want 1", rate)
	}
}

func TestRates_CrossRate(t *testing.T) {
	rates := NewStaticRates(record(day(2023, time.June, 2), "USD", "1.25", "SEK", "10"))

	rate, err := rates.GetRate(context.Background(), "USD", "SEK", day(2023, time.June, 2))
	if err != nil {
		t.Fatalf("GetRate() error = %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(8)) {
		t.Errorf("GetRate(USD, SEK) = %s, want 8 (10 / 1.25)", rate)
	}

	// To and from the base currency itself.
	rate, err = rates.GetRate(context.Background(), "EUR", "USD", day(2023, time.June, 2))
	if err != nil {
		t.Fatalf("GetRate() error = %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("1.25")) {
		t.Errorf("GetRate(EUR, USD) = %s, want 1.25", rate)
	}
}

func TestRates_FallbackToPreviousDay(t *testing.T) {
	// 2023-06-02 is a Friday; a Sunday query resolves to Friday's rate.
	rates := NewStaticRates(record(day(2023, time.June, 2), "USD", "1.25"))

	rate, err := rates.GetRate(context.Background(), "EUR", "USD", day(2023, time.June, 4))
	if err != nil {
		t.Fatalf("GetRate() error = %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("1.25")) {
		t.Errorf("GetRate() = %s, want Friday's 1.25", rate)
	}
}

func TestRates_MissingCurrencyWalksBack(t *testing.T) {
	// The newest record has no SEK quote; the previous day's is used.
	rates := NewStaticRates(
		record(day(2023, time.June, 1), "USD", "1.2", "SEK", "10"),
		record(day(2023, time.June, 2), "USD", "1.25"),
	)
	rate, err := rates.GetRate(context.Background(), "EUR", "SEK", day(2023, time.June, 2))
	if err != nil {
		t.Fatalf("GetRate() error = %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(10)) {
		t.Errorf("GetRate(EUR, SEK) = %s, want 10 from the previous day", rate)
	}
}

func TestRates_LookbackBounded(t *testing.T) {
	rates := NewStaticRates(record(day(2023, time.January, 1), "USD", "1.1"))

	// Eight days after the only record: outside the lookback window.
	_, err := rates.GetRate(context.Background(), "EUR", "USD", day(2023, time.January, 9))
	if !errors.Is(err, ErrRateUnavailable) {
		t.Fatalf("GetRate() error = %v, want ErrRateUnavailable", err)
	}

	// Seven days after is still within the window.
	rate, err := rates.GetRate(context.Background(), "EUR", "USD", day(2023, time.January, 8))
	if err != nil {
		t.Fatalf("GetRate() error = %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("1.1")) {
		t.Errorf("GetRate() = %s, want 1.1", rate)
	}
}

func TestRates_FetchesArchiveOnce(t *testing.T) {
	var hits int
	server := rateServer(t, &hits)

	rates := NewRates(ratestore.Disabled{}, server.URL)
	first, err := rates.GetRate(context.Background(), "EUR", "USD", day(2023, time.June, 2))
	if err != nil {
		t.Fatalf("GetRate() error = %v", err)
	}
	second, err := rates.GetRate(context.Background(), "EUR", "USD", day(2023, time.June, 1))
	if err != nil {
		t.Fatalf("GetRate() error = %v", err)
	}

	if hits != 1 {
		t.Errorf("archive fetched %d times, want 1", hits)
	}
	if !first.Equal(decimal.RequireFromString("1.25")) || !second.Equal(decimal.RequireFromString("1.2")) {
		t.Errorf("rates = %s, %s, want 1.25 and 1.2", first, second)
	}
}

func TestRates_StoreServesSecondRun(t *testing.T) {
	var hits int
	server := rateServer(t, &hits)
	store := newMemStore()

	// First run fills the store from the remote archive.
	first := NewRates(store, server.URL)
	if _, err := first.GetRate(context.Background(), "EUR", "USD", day(2023, time.June, 2)); err != nil {
		t.Fatalf("GetRate() error = %v", err)
	}
	if hits != 1 {
		t.Fatalf("archive fetched %d times, want 1", hits)
	}
	if store.puts != 2 {
		t.Errorf("store received %d records, want 2", store.puts)
	}

	// A second run resolves from the store without touching the remote.
	second := NewRates(store, server.URL)
	rate, err := second.GetRate(context.Background(), "EUR", "USD", day(2023, time.June, 2))
	if err != nil {
		t.Fatalf("GetRate() error = %v", err)
	}
	if hits != 1 {
		t.Errorf("archive fetched %d times across runs, want 1", hits)
	}
	if !rate.Equal(decimal.RequireFromString("1.25")) {
		t.Errorf("GetRate() = %s, want 1.25 from the store", rate)
	}
}

func TestRates_RemoteFetchFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	rates := NewRates(ratestore.Disabled{}, server.URL)
	_, err := rates.GetRate(context.Background(), "EUR", "USD", day(2023, time.June, 2))
	if !errors.Is(err, ErrRemoteFetch) {
		t.Fatalf("GetRate() error = %v, want ErrRemoteFetch", err)
	}
}

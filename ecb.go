package capgains

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// This file contains the download and parsing of the ECB euro foreign
// exchange reference rate archive.

// DefaultRatesURL is the official ECB historical reference rate archive:
// a zip holding one CSV with a row per trading day since 1999.
const DefaultRatesURL = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-hist.zip"

// maxHTTPRetries bounds retries on HTTP-level failures before giving up.
const maxHTTPRetries = 5

var isoDateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// fetchRateHistory downloads the archive and parses it into one
// RateRecord per published date, keyed by ISO date string.
func fetchRateHistory(ctx context.Context, client *http.Client, url string) (map[string]RateRecord, error) {
	body, err := download(ctx, client, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteFetch, err)
	}
	log.Debug().Str("url", url).Int("bytes", len(body)).Msg("downloaded exchange rate archive")

	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive: %v", ErrRemoteFetch, err)
	}
	records := make(map[string]RateRecord)
	for _, file := range archive.File {
		f, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRemoteFetch, file.Name, err)
		}
		err = parseRateCSV(f, records)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRemoteFetch, file.Name, err)
		}
	}
	return records, nil
}

// download GETs the archive, retrying bounded times on HTTP errors.
func download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	var lastErr error
	for retries := 0; retries <= maxHTTPRetries; retries++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("cannot http GET %v: %v", url, resp.Status)
			log.Warn().Str("status", resp.Status).Str("url", url).Msg("retrying rate archive download")
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		return body, nil
	}
	return nil, fmt.Errorf("maximum number of retries exceeded: %w", lastErr)
}

// parseRateCSV reads the ECB CSV layout into records. The first row is
// "Date,USD,JPY,...", each following row "2015-01-20,1.1579,137.37,...".
// Cells that do not parse as a number (the feed uses "N/A" for currencies
// not yet or no longer quoted) are skipped.
func parseRateCSV(f io.Reader, records map[string]RateRecord) error {
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // trailing comma on some rows
	var currencies []string
	for {
		items, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(items) == 0 {
			continue
		}
		if items[0] == "Date" {
			currencies = items
			continue
		}
		if currencies == nil || !isoDateRE.MatchString(items[0]) {
			continue
		}
		day, err := ParseDate(items[0])
		if err != nil {
			return err
		}
		rec := RateRecord{Date: day, Rates: make(map[string]decimal.Decimal, len(items)-1)}
		for i := 1; i < len(items) && i < len(currencies); i++ {
			rate, err := decimal.NewFromString(items[i])
			if err != nil {
				continue
			}
			rec.Rates[currencies[i]] = rate
		}
		if len(rec.Rates) > 0 {
			records[items[0]] = rec
		}
	}
}

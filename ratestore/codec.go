package ratestore

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
)

// objectName is the key under which one date's record is stored, shared
// by every backend so caches survive a backend switch.
func objectName(day string) string {
	return fmt.Sprintf("ecb_exchange_rates-%s.json.gz", day)
}

// encode renders a record as gzip-compressed JSON.
func encode(rec Record) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(rec); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decode parses gzip-compressed JSON back into a record.
func decode(data []byte) (Record, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

package store

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/journey/internal/ir"
)

// marshalOccurrences converts an occurrence list to canonical JSON TEXT.
func marshalOccurrences(occ []string) (string, error) {
	if occ == nil {
		occ = []string{}
	}
	data, err := ir.MarshalCanonical(occ)
	if err != nil {
		return "", fmt.Errorf("marshal occurrences: %w", err)
	}
	return string(data), nil
}

func unmarshalOccurrences(data string) ([]string, error) {
	occ := []string{}
	if data == "" {
		return occ, nil
	}
	if err := json.Unmarshal([]byte(data), &occ); err != nil {
		return nil, fmt.Errorf("unmarshal occurrences: %w", err)
	}
	return occ, nil
}

// marshalStats converts Stats to JSON TEXT with HTML escaping disabled.
func marshalStats(stats ir.Stats) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(stats); err != nil {
		return "", fmt.Errorf("marshal stats: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func unmarshalStats(data string) (ir.Stats, error) {
	var stats ir.Stats
	if data == "" || data == "{}" {
		return stats, nil
	}
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return ir.Stats{}, fmt.Errorf("unmarshal stats: %w", err)
	}
	return stats, nil
}

// nullable maps an absent string to SQL NULL; the empty string stays a value.
func nullable(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func fromNullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

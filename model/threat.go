// Package model defines the data structures used by malwatch: threat feed
// entries, the software composition inventory, and the cross-reference results.
package model

import (
	"sort"
	"time"
)

// ThreatHash describes one published artifact hash for a flagged package
type ThreatHash struct {
	Archive string `json:"archive"` // Archive file name the hash was computed over.
	Hash    string `json:"hash"`    // Hex digest as published by the feed.
	Type    string `json:"type"`    // Digest algorithm (e.g., "sha256").
}

// ThreatEntry is one record in the vendor feed of known-malicious packages.
// The same (name, version) can appear more than once when a package is
// re-flagged with new indicators; entries are never de-duplicated.
type ThreatEntry struct {
	Created    string         `json:"created"`              // Feed timestamp, kept verbatim for rendering.
	Ecosystem  string         `json:"ecosystem,omitempty"`  // Package ecosystem tag (e.g., "npm").
	Name       string         `json:"name"`                 // Package name, matched byte-for-byte.
	Version    string         `json:"version"`              // Package version, matched byte-for-byte.
	Indicators map[string]any `json:"indicators,omitempty"` // Open-ended indicator bag; only keys are consumed.
	Hashes     []ThreatHash   `json:"hashes,omitempty"`
}

// NewThreatEntry creates a new ThreatEntry instance with an empty indicator set
func NewThreatEntry() *ThreatEntry {
	return &ThreatEntry{
		Indicators: map[string]any{},
	}
}

// IndicatorNames returns the indicator keys in sorted order so that reports
// stay reproducible across runs.
func (t ThreatEntry) IndicatorNames() []string {
	names := make([]string, 0, len(t.Indicators))
	for name := range t.Indicators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// createdFormats lists the timestamp layouts the feed has been observed to emit
var createdFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CreatedTime parses the Created timestamp. The second return value is false
// when the value matches none of the known layouts; callers decide how an
// unparsable date sorts and renders.
func (t ThreatEntry) CreatedTime() (time.Time, bool) {
	for _, format := range createdFormats {
		if parsed, err := time.Parse(format, t.Created); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulnmgt/malwatch/model"
)

var fixedTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func sampleMatch() model.VulnerableMatch {
	return model.VulnerableMatch{
		Threat: model.ThreatEntry{
			Created:   "2024-06-01T12:00:00Z",
			Ecosystem: "npm",
			Name:      "left-pad",
			Version:   "1.0.0",
			Indicators: map[string]any{
				"typosquat":          true,
				"obfuscated-payload": map[string]any{"entropy": 7.2},
			},
		},
		InventoryTriple: model.InventoryTriple{
			Library: model.LibraryRecord{
				ID:      "lib-42",
				Name:    "left-pad",
				Version: "1.0.0",
				License: "MIT",
				Vulnerabilities: []model.Vulnerability{
					{ID: "CVE-2024-0001"}, {ID: "CVE-2024-0002"},
				},
			},
			Project:   model.Project{ID: "prj-9", Name: "billing", WorkspaceID: "ws-1"},
			Workspace: model.Workspace{ID: "ws-1", Name: "Platform"},
		},
	}
}

func TestSummaryZeroMatches(t *testing.T) {
	out := Summary(nil, fixedTime)

	assert.Contains(t, out, "Matches found: 0")
	assert.Contains(t, out, cleanMessage)
	assert.NotContains(t, out, "[1]", "no numbered blocks when clean")
	assert.NotContains(t, out, "ACTION REQUIRED")
}

func TestSummaryRendersNumberedBlocks(t *testing.T) {
	first := sampleMatch()
	second := sampleMatch()
	second.Threat.Name = "minimist"
	second.Threat.Version = "0.0.8"
	second.Library.License = ""
	second.Threat.Indicators = nil

	out := Summary([]model.VulnerableMatch{first, second}, fixedTime)

	assert.Contains(t, out, "Matches found: 2")
	assert.Contains(t, out, "[1] left-pad@1.0.0 (npm)")
	assert.Contains(t, out, "[2] minimist@0.0.8 (npm)")
	assert.Contains(t, out, "PURL:            pkg:npm/left-pad@1.0.0")
	// indicator keys only, sorted, comma-joined
	assert.Contains(t, out, "Indicators:      obfuscated-payload, typosquat")
	assert.Contains(t, out, "Indicators:      none reported")
	assert.Contains(t, out, "Workspace:       Platform (ws-1)")
	assert.Contains(t, out, "Project:         billing (prj-9)")
	assert.Contains(t, out, "Library ID:      lib-42")
	assert.Contains(t, out, "License:         MIT")
	assert.Contains(t, out, "License:         Unknown")
	// the feed timestamp is rendered verbatim
	assert.Contains(t, out, "Threat Created:  2024-06-01T12:00:00Z")
	assert.Contains(t, out, "Known Vulns:     2")
	assert.Contains(t, out, "ACTION REQUIRED:")
	assert.Contains(t, out, "4. Notify your security team")

	// blocks appear in match order
	assert.Less(t, strings.Index(out, "[1]"), strings.Index(out, "[2]"))
}

func TestSummaryIdempotentForFixedClock(t *testing.T) {
	matches := []model.VulnerableMatch{sampleMatch()}
	assert.Equal(t, Summary(matches, fixedTime), Summary(matches, fixedTime))
}

func TestSummaryOnlyTimestampVaries(t *testing.T) {
	matches := []model.VulnerableMatch{sampleMatch()}
	a := strings.Split(Summary(matches, fixedTime), "\n")
	b := strings.Split(Summary(matches, fixedTime.Add(time.Hour)), "\n")

	require.Equal(t, len(a), len(b))
	for i := range a {
		if strings.Contains(a[i], "Generated:") {
			assert.NotEqual(t, a[i], b[i])
			continue
		}
		assert.Equal(t, a[i], b[i])
	}
}

func TestMaliciousTableEmptyFeed(t *testing.T) {
	out := MaliciousTable(nil, fixedTime)

	assert.Contains(t, out, "Total threat entries: 0")
	assert.Contains(t, out, emptyFeedMessage)
	assert.NotContains(t, out, "Date Added")
}

func TestMaliciousTableSortsDescendingByDate(t *testing.T) {
	threats := []model.ThreatEntry{
		{Created: "2024-01-01T00:00:00Z", Ecosystem: "npm", Name: "one", Version: "1.0"},
		{Created: "2023-06-15T00:00:00Z", Ecosystem: "PyPI", Name: "two", Version: "2.0"},
		{Created: "2024-06-01T00:00:00Z", Ecosystem: "npm", Name: "three", Version: "3.0"},
	}

	out := MaliciousTable(threats, fixedTime)

	assert.Contains(t, out, "Total threat entries: 3")
	assert.Less(t, strings.Index(out, "2024-06-01"), strings.Index(out, "2024-01-01"))
	assert.Less(t, strings.Index(out, "2024-01-01"), strings.Index(out, "2023-06-15"))
}

func TestMaliciousTableCellWidthsMatchHeader(t *testing.T) {
	threats := []model.ThreatEntry{
		{Created: "2024-01-01T00:00:00Z", Ecosystem: "npm", Name: "a-very-long-package-name-indeed", Version: "1.0.0-beta.7"},
		{Created: "2023-06-15T00:00:00Z", Name: "x", Version: "1"},
	}

	out := MaliciousTable(threats, fixedTime)

	var tableLines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "|") {
			tableLines = append(tableLines, line)
		}
	}
	// header + separator + 2 data rows
	require.Len(t, tableLines, 4)

	headerCells := strings.Split(tableLines[0], "|")
	for _, line := range tableLines[1:] {
		cells := strings.Split(line, "|")
		require.Equal(t, len(headerCells), len(cells))
		for i := range cells {
			assert.Equal(t, len(headerCells[i]), len(cells[i]),
				"cell %d of %q must match header width", i, line)
		}
	}
}

func TestMaliciousTableDefaultsMissingFieldsToUnknown(t *testing.T) {
	threats := []model.ThreatEntry{
		{Created: "2024-01-01T00:00:00Z"},
	}

	out := MaliciousTable(threats, fixedTime)

	assert.Contains(t, out, "| 2024-01-01 | Unknown   | Unknown      | Unknown         |")
}

func TestMaliciousTableUnparsableDatesSortLast(t *testing.T) {
	threats := []model.ThreatEntry{
		{Created: "not-a-date", Ecosystem: "npm", Name: "broken", Version: "1.0"},
		{Created: "2020-01-01T00:00:00Z", Ecosystem: "npm", Name: "old", Version: "1.0"},
	}

	out := MaliciousTable(threats, fixedTime)

	// the raw string is rendered unmodified and the row sorts after dated ones
	assert.Contains(t, out, "not-a-date")
	assert.Less(t, strings.Index(out, "2020-01-01"), strings.Index(out, "not-a-date"))
}

func TestMaliciousTableIdempotentForFixedClock(t *testing.T) {
	threats := []model.ThreatEntry{
		{Created: "2024-01-01T00:00:00Z", Ecosystem: "npm", Name: "one", Version: "1.0"},
	}
	assert.Equal(t, MaliciousTable(threats, fixedTime), MaliciousTable(threats, fixedTime))
}

func TestMaliciousTableEndsWithCrossRefNote(t *testing.T) {
	threats := []model.ThreatEntry{
		{Created: "2024-01-01T00:00:00Z", Ecosystem: "npm", Name: "one", Version: "1.0"},
	}
	out := MaliciousTable(threats, fixedTime)
	assert.True(t, strings.HasSuffix(out, crossRefNote))
}

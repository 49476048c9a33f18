package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vulnmgt/malwatch/model"
	"github.com/vulnmgt/malwatch/util"
)

// emptyFeedMessage is the fixed text emitted when the feed has no entries
const emptyFeedMessage = "No malicious packages are currently published in the feed."

// crossRefNote is the fixed two-line note appended after the table
const crossRefNote = `Note: cross-reference this table with summary.txt to see which
entries match libraries currently in use in your inventory.
`

// Column headers; each column is never narrower than its header
var tableHeaders = [4]string{"Date Added", "Ecosystem", "Package Name", "Package Version"}

// MaliciousTable renders the full threat feed as a fixed-width pipe-delimited
// table, newest entries first. The count in the header is the raw feed count;
// repeated (name, version) entries stay separate rows.
func MaliciousTable(threats []model.ThreatEntry, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString(rule + "\n")
	sb.WriteString(" KNOWN MALICIOUS PACKAGES\n")
	fmt.Fprintf(&sb, " Generated: %s\n", generatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, " Total threat entries: %d\n", len(threats))
	sb.WriteString(rule + "\n\n")

	if len(threats) == 0 {
		sb.WriteString(emptyFeedMessage + "\n")
		return sb.String()
	}

	rows := buildRows(threats)
	widths := columnWidths(rows)

	writeRow(&sb, tableHeaders, widths)
	writeSeparator(&sb, widths)
	for _, row := range rows {
		writeRow(&sb, row, widths)
	}

	sb.WriteString("\n" + crossRefNote)

	return sb.String()
}

// buildRows sorts a copy of the feed descending by creation date and renders
// each entry's cells. Entries whose date does not parse sort after every
// dated entry and keep their raw date string in the first column.
func buildRows(threats []model.ThreatEntry) [][4]string {
	sorted := append([]model.ThreatEntry(nil), threats...)

	sort.SliceStable(sorted, func(i, j int) bool {
		ti, iOK := sorted[i].CreatedTime()
		tj, jOK := sorted[j].CreatedTime()
		if iOK != jOK {
			return iOK
		}
		return ti.After(tj)
	})

	rows := make([][4]string, 0, len(sorted))
	for _, entry := range sorted {
		date := entry.Created
		if created, ok := entry.CreatedTime(); ok {
			date = created.Format("2006-01-02")
		}

		rows = append(rows, [4]string{
			date,
			util.GetStringOrDefault(entry.Ecosystem, "Unknown"),
			util.GetStringOrDefault(entry.Name, "Unknown"),
			util.GetStringOrDefault(entry.Version, "Unknown"),
		})
	}

	return rows
}

func columnWidths(rows [][4]string) [4]int {
	var widths [4]int
	for col, header := range tableHeaders {
		widths[col] = len(header)
	}
	for _, row := range rows {
		for col, cell := range row {
			if len(cell) > widths[col] {
				widths[col] = len(cell)
			}
		}
	}
	return widths
}

func writeRow(sb *strings.Builder, cells [4]string, widths [4]int) {
	for col, cell := range cells {
		fmt.Fprintf(sb, "| %-*s ", widths[col], cell)
	}
	sb.WriteString("|\n")
}

func writeSeparator(sb *strings.Builder, widths [4]int) {
	for _, width := range widths {
		sb.WriteString("|" + strings.Repeat("-", width+2))
	}
	sb.WriteString("|\n")
}

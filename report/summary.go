// Package report renders the two text artifacts of a run: the alert summary
// and the malicious packages table. Both renderers are pure functions of
// their inputs plus an injected generation time; they perform no I/O.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/vulnmgt/malwatch/model"
	"github.com/vulnmgt/malwatch/util"
)

const rule = "=================================================================="

// cleanMessage is the fixed text emitted when no inventory library matches
// a threat entry.
const cleanMessage = "No known-malicious packages were found in the inventory."

// actionFooter lists the fixed remediation steps appended whenever at least
// one match exists.
const actionFooter = `ACTION REQUIRED:
  1. Remove or pin away from the affected package versions listed above.
  2. Rotate credentials and tokens available to builds that used them.
  3. Audit build and deploy logs for the indicators of compromise.
  4. Notify your security team and open an incident for each match.
`

// Summary renders the alert summary for the given matches, in match order.
// Rendering the same match list twice differs only in the generation
// timestamp.
func Summary(matches []model.VulnerableMatch, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString(rule + "\n")
	sb.WriteString(" MALICIOUS PACKAGE ALERT SUMMARY\n")
	fmt.Fprintf(&sb, " Generated: %s\n", generatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, " Matches found: %d\n", len(matches))
	sb.WriteString(rule + "\n\n")

	if len(matches) == 0 {
		sb.WriteString(cleanMessage + "\n")
		return sb.String()
	}

	for i, m := range matches {
		writeMatchBlock(&sb, i+1, m)
	}

	sb.WriteString(actionFooter)

	return sb.String()
}

func writeMatchBlock(sb *strings.Builder, number int, m model.VulnerableMatch) {
	ecosystem := util.GetStringOrDefault(m.Threat.Ecosystem, "Unknown")

	indicators := "none reported"
	if names := m.Threat.IndicatorNames(); len(names) > 0 {
		indicators = strings.Join(names, ", ")
	}

	fmt.Fprintf(sb, "[%d] %s@%s (%s)\n", number, m.Threat.Name, m.Threat.Version, ecosystem)
	fmt.Fprintf(sb, "    PURL:            %s\n", util.PackagePURL(m.Threat.Ecosystem, m.Threat.Name, m.Threat.Version))
	fmt.Fprintf(sb, "    Indicators:      %s\n", indicators)
	fmt.Fprintf(sb, "    Workspace:       %s (%s)\n", m.Workspace.Name, m.Workspace.ID)
	fmt.Fprintf(sb, "    Project:         %s (%s)\n", m.Project.Name, m.Project.ID)
	fmt.Fprintf(sb, "    Library ID:      %s\n", m.Library.ID)
	fmt.Fprintf(sb, "    License:         %s\n", util.GetStringOrDefault(m.Library.License, "Unknown"))
	// The feed timestamp is rendered exactly as received, never reformatted.
	fmt.Fprintf(sb, "    Threat Created:  %s\n", m.Threat.Created)
	fmt.Fprintf(sb, "    Known Vulns:     %d\n", len(m.Library.Vulnerabilities))
	sb.WriteString("\n")
}

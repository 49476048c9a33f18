// Package match performs the exact-match join between threat feed entries and
// inventory library occurrences.
package match

import (
	"github.com/vulnmgt/malwatch/model"
)

// Find returns every (threat, inventory occurrence) pair whose package name
// and version are byte-for-byte equal. Matching is case-sensitive and does no
// version normalization: "1.0" never matches "1.0.0".
//
// Each qualifying pair yields exactly one match. Duplicate threat entries for
// the same package (re-flagged over time) and duplicate inventory occurrences
// (same library in many projects) all count separately. Output order is
// threats in feed order with inventory in flattened order, so reports are
// reproducible.
//
// The scan is a plain nested loop; both inputs are in the low thousands.
func Find(threats []model.ThreatEntry, inventory []model.InventoryTriple) []model.VulnerableMatch {
	var matches []model.VulnerableMatch

	for _, threat := range threats {
		for _, triple := range inventory {
			if threat.Name == triple.Library.Name && threat.Version == triple.Library.Version {
				matches = append(matches, model.VulnerableMatch{
					Threat:          threat,
					InventoryTriple: triple,
				})
			}
		}
	}

	return matches
}

// Package model - inventory types mirroring the composition-analysis API's
// workspace -> project -> library hierarchy.
package model

// Workspace is the top-level inventory grouping
type Workspace struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Project belongs to exactly one workspace
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WorkspaceID string `json:"workspaceId"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// Vulnerability is a known CVE-style finding attached to a library by the
// inventory platform. Reporting only consumes the count.
type Vulnerability struct {
	ID       string `json:"id"`
	Severity string `json:"severity,omitempty"`
}

// LibraryRecord is a resolved dependency as reported for one project
type LibraryRecord struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Version         string          `json:"version"`
	Ecosystem       string          `json:"ecosystem,omitempty"`
	License         string          `json:"license,omitempty"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities,omitempty"`
}

// InventoryTriple is one denormalized (library, project, workspace) row.
// Libraries are only associated with their project/workspace in memory; the
// same name+version may appear in many triples.
type InventoryTriple struct {
	Library   LibraryRecord `json:"library"`
	Project   Project       `json:"project"`
	Workspace Workspace     `json:"workspace"`
}

// VulnerableMatch pairs a threat entry with one inventory occurrence of the
// same exact (name, version). Multiple matches may share either side.
type VulnerableMatch struct {
	Threat ThreatEntry `json:"threat"`
	InventoryTriple
}

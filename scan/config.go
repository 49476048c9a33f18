// Package scan orchestrates one batch run: fetch the threat feed, flatten the
// inventory, cross-reference the two, and write the report files. The run
// outcome maps to the process exit status in cmd.
package scan

import (
	"github.com/vulnmgt/malwatch/util"
)

// Default upstream endpoints and output location, overridable by settings
const (
	DefaultFeedURL      = "https://feed.malwatch.dev"
	DefaultInventoryURL = "https://inventory.malwatch.dev"
	DefaultOutDir       = "."
)

// Config carries the resolved run inputs. Resolution mechanics (flags, env,
// .env, settings file) live in cmd; the pipeline only sees plain values.
type Config struct {
	FeedURL      string // threat feed base URL
	FeedToken    string // threat feed API key (required)
	InventoryURL string // inventory base URL
	UserKey      string // inventory user key (required)
	OrgToken     string // inventory organization token (required)
	OutDir       string // directory the two report files are written to
	Debug        bool   // lowers the log level to debug
}

// NewConfig returns a Config with default endpoints filled in
func NewConfig() Config {
	return Config{
		FeedURL:      DefaultFeedURL,
		InventoryURL: DefaultInventoryURL,
		OutDir:       DefaultOutDir,
	}
}

// Validate checks the three required secrets before any network activity.
// A missing secret aborts the run with a *ConfigError.
func (c Config) Validate() error {
	var missing []string

	if util.IsEmpty(c.FeedToken) {
		missing = append(missing, "feed token")
	}
	if util.IsEmpty(c.UserKey) {
		missing = append(missing, "user key")
	}
	if util.IsEmpty(c.OrgToken) {
		missing = append(missing, "org token")
	}

	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}

	return nil
}

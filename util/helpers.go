// Package util provides shared helper functions for env handling and
// package-identifier rendering.
package util

import (
	"os"
	"strings"

	"github.com/package-url/packageurl-go"
)

// GetEnvDefault is a convenience function for handling env vars
func GetEnvDefault(key, defVal string) string {
	val, ex := os.LookupEnv(key) // get the env var
	if !ex {                     // not found return default
		return defVal
	}
	return val // return value for env var
}

// IsEmpty checks if a string is empty or contains only whitespace
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}

// IsNotEmpty checks if a string is not empty
func IsNotEmpty(s string) bool {
	return !IsEmpty(s)
}

// GetStringOrDefault returns value or default if empty
func GetStringOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

// EcosystemToPurlType converts a feed/inventory ecosystem tag to a PURL type
func EcosystemToPurlType(ecosystem string) string {
	mapping := map[string]string{
		"npm":       "npm",
		"PyPI":      "pypi",
		"pypi":      "pypi",
		"Maven":     "maven",
		"Go":        "golang",
		"NuGet":     "nuget",
		"RubyGems":  "gem",
		"crates.io": "cargo",
		"Packagist": "composer",
		"Pub":       "pub",
		"CocoaPods": "cocoapods",
		"Hex":       "hex",
	}
	return mapping[ecosystem]
}

// PackagePURL builds a display PURL for a package occurrence, e.g.
// pkg:npm/left-pad@1.0.0. Unknown ecosystems fall back to "generic" so a
// match always renders with a usable identifier.
func PackagePURL(ecosystem, name, version string) string {
	purlType := EcosystemToPurlType(ecosystem)
	if purlType == "" {
		purlType = "generic"
	}

	purl := packageurl.PackageURL{
		Type:    purlType,
		Name:    name,
		Version: version,
	}

	return strings.ToLower(purl.ToString())
}

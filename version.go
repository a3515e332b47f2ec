// Package goap provides the version information for goap-go.
package goap

// Version is the current version of goap-go.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

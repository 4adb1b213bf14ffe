// Package version holds the build identity printed by "pqtool version".
package version

import "fmt"

// Overridden at link time with -ldflags "-X github.com/TFMV/pqtool/version.Version=...".
var Version = "0.1.0"
var BuildDate = "2026-10-18"

func GetVersion() string {
	return Version
}

func GetBuildDate() string {
	return BuildDate
}

// String is the one-line form used by the CLI.
func String() string {
	return fmt.Sprintf("pqtool %s (built %s)", Version, BuildDate)
}

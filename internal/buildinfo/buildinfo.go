// Package buildinfo holds the build stamp, set with
//
//	-ldflags "-X pocket/internal/buildinfo.Version=v1.2.0 -X pocket/internal/buildinfo.Commit=..."
package buildinfo

import "strings"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func known(s string) bool { return s != "" && s != "unknown" }

// Short is the compact identifier shown on screen: the version when one was
// stamped, else the commit, else "dev".
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if known(Commit) {
		return Commit
	}
	return "dev"
}

// Long adds the commit and build date to Short when they are known.
func Long() string {
	parts := []string{Short()}
	if known(Commit) && Commit != parts[0] {
		parts = append(parts, Commit)
	}
	if known(Date) {
		parts = append(parts, Date)
	}
	return strings.Join(parts, " ")
}

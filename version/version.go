// Package version holds release metadata for getman.
package version

import "fmt"

const (
	Title       = "getman"
	Description = "Convenience HTTP client for exploring and testing APIs"
	License     = "MIT"
)

// Release levels.
const (
	LevelAlpha     = "alpha"
	LevelBeta      = "beta"
	LevelCandidate = "candidate"
	LevelFinal     = "final"
)

// Info describes a release.
type Info struct {
	Major        int
	Minor        int
	Patch        int
	ReleaseLevel string
	Serial       int
}

// Current is the version of this module.
var Current = Info{Major: 1, Minor: 0, Patch: 0, ReleaseLevel: LevelFinal}

// Text renders major.minor.patch. Pre-releases with a serial append
// "-<level><serial>", e.g. "1.1.0-beta2".
func (i Info) Text() string {
	v := fmt.Sprintf("%d.%d.%d", i.Major, i.Minor, i.Patch)
	if i.ReleaseLevel != LevelFinal && i.Serial > 0 {
		v += fmt.Sprintf("-%s%d", i.ReleaseLevel, i.Serial)
	}
	return v
}

func (i Info) String() string {
	return i.Text()
}

// UserAgent returns the default User-Agent sent by the client.
func UserAgent() string {
	return Title + "/" + Current.Text()
}

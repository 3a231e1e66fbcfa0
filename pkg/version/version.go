package version

import (
	"fmt"
	"runtime/debug"
)

// Build variables injected with ldflags:
// -X 'github.com/coscup/sessiongen/pkg/version.Version=v1.0.0'
// -X 'github.com/coscup/sessiongen/pkg/version.CommitHash=abc123'
// -X 'github.com/coscup/sessiongen/pkg/version.BuildDate=2025-07-01T00:00:00Z'
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Info returns build information in a structured format
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildDate  string `json:"build_date"`
	GoVersion  string `json:"go_version"`
}

// Get returns the current build information. The commit falls back to the
// VCS stamp of the module build when ldflags were not used.
func Get() Info {
	info := Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildDate:  BuildDate,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.CommitHash == "unknown":
				info.CommitHash = s.Value
			case s.Key == "vcs.time" && info.BuildDate == "unknown":
				info.BuildDate = s.Value
			}
		}
	}
	return info
}

func (i Info) String() string {
	return fmt.Sprintf("sessiongen %s (commit %s, built %s, %s)", i.Version, i.CommitHash, i.BuildDate, i.GoVersion)
}

// UserAgent identifies sessiongen to remote hosts.
func UserAgent() string {
	return "sessiongen/" + Version
}

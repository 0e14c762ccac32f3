// Package version provides build information for the repodoc CLI.
package version

import (
	"fmt"
	"runtime"
)

// These variables are populated at build time using -ldflags.
// Example:
// go build -ldflags "-X 'repodoc/pkg/version.Version=1.2.3' -X 'repodoc/pkg/version.Commit=abcdefg' -X 'repodoc/pkg/version.BuildTime=2024-04-27T15:04:05Z'"
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// AppName is reported in logs and version output.
const AppName = "repodoc"

// Info describes the running binary.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String renders the version on one line, e.g.
// repodoc version 1.2.3 (commit: abcdefg) built at 2024-04-27T15:04:05Z with go1.22.1 on linux/amd64
func (i Info) String() string {
	return fmt.Sprintf("%s version %s (commit: %s) built at %s with %s on %s",
		AppName, i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}

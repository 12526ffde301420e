// Package version holds build metadata injected by the linker, for example
//
//	go build -ldflags "-X github.com/philipparndt/gotrimesh/version.Version=v0.3.0"
package version

// These variables are set via ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GetVersion returns the version string
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version with the commit and build date when
// they are known
func GetFullVersion() string {
	if GitCommit == "unknown" {
		return Version
	}
	return Version + " (" + GitCommit + ", " + BuildDate + ")"
}

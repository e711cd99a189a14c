// Package version carries build information injected at link time:
//
//	go build -ldflags "-X github.com/ttylab/serialmon/internal/version.Version=v1.2.3"
package version

var (
	// Version is the release version or "dev" for local builds.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "unknown"
	// Date is the build timestamp.
	Date = "unknown"
)

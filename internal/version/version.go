// Package version holds build metadata, set at link time:
//
//	go build -ldflags "-X github.com/mj1618/scoopick/internal/version.Version=v0.3.0 \
//	  -X github.com/mj1618/scoopick/internal/version.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/mj1618/scoopick/internal/version.BuildDate=$(date -u +%Y-%m-%d)"
package version

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Package version reports build information stamped at link time
package version

// BuildInfo holds version information about the binary
type BuildInfo struct {
	Service string `json:"service" example:"scheduling-api"`
	Version string `json:"version" example:"v0.3.1"`
	Commit  string `json:"commit" example:"4f2c9e1"`
	Date    string `json:"date" example:"2025-06-01"`
}

// Info returns the build information for service
// set with -ldflags "-X 'scheduling/internal/core/version.version=v0.3.1'
// -X 'scheduling/internal/core/version.commit=4f2c9e1' -X 'scheduling/internal/core/version.date=2025-06-01'"
func Info(service string) BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

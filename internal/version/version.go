// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// UserAgent identifies churn binaries in outgoing HTTP requests.
func UserAgent(component string) string {
	return "churn-" + component + "/" + Version
}

// Package version holds build-time version metadata, overridable via
// -ldflags. Grounded on the teacher's internal/version package verbatim.
package version

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// VersionString formats Version plus any available GitCommit/BuildDate
// suffix for cobra's --version output.
func VersionString() string {
	s := Version
	if GitCommit != "" {
		s += " (" + GitCommit + ")"
	}
	if BuildDate != "" {
		s += " built " + BuildDate
	}
	return s
}

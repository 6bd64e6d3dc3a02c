package buildtime

// Overridden at build time with -ldflags "-X ...=v1.2.3".
var (
	version  = "dev"
	revision = "unknown"
)

// VERSION is the version string this kitchen has been built as.
func VERSION() string {
	return version
}

func GIT_REVISION() string {
	return revision
}

func VersionString() string {
	return version + " (commit: " + revision + ")"
}

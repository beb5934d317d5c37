// Package misc keeps build time program identification.
package misc

// Set by the linker: -X doxyhl/misc.version=... -X doxyhl/misc.gitHash=...
var (
	version = "dev"
	gitHash = "unknown"
)

const appName = "doxyhl"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}

// Package misc holds program identity values set at link time.
package misc

// Set with -ldflags "-X newsview/misc.version=... -X newsview/misc.gitHash=..."
var (
	appName = "newsview"
	version = "dev"
	gitHash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}

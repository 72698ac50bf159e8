// Package version holds the build version, set with
// -ldflags "-X github.com/KHajji/distle/internal/version.Version=v1.2.3".
package version

var Version = "dev"

// Package misc holds small helpers describing the running binary.
package misc

import (
	"path"
	"runtime/debug"
	"strings"
)

var (
	// overwritten by linker for release builds
	appName = "grassc"
	version = "development"
	gitHash = ""
)

// GetAppName returns short program name used for logs and reports.
func GetAppName() string {
	return appName
}

// GetVersion returns program version, either set by linker or derived from
// module build information.
func GetVersion() string {
	if version != "development" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && len(bi.Main.Version) > 0 && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return version
}

// GetGitHash returns vcs revision recorded at build time.
func GetGitHash() string {
	if len(gitHash) != 0 {
		return gitHash
	}
	var rev, modified string
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				rev = s.Value
			case "vcs.modified":
				if s.Value == "true" {
					modified = "*"
				}
			}
		}
	}
	if len(rev) == 0 {
		return "unknown"
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	return rev + modified
}

// GetModuleName returns last element of the main module path.
func GetModuleName() string {
	if bi, ok := debug.ReadBuildInfo(); ok && len(bi.Main.Path) > 0 {
		return path.Base(bi.Main.Path)
	}
	return strings.ToLower(appName)
}

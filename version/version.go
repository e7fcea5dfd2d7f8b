// Package version exposes the library version for identification
// headers and diagnostics.
package version

import "runtime/debug"

// Version is overridden at build time with -ldflags.
var Version = "dev"

// String returns the library version. When no explicit version was
// injected it falls back to the module version recorded in the build
// info, if any.
func String() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path == "github.com/kbukum/fetchkit" {
				return dep.Version
			}
		}
	}
	return Version
}

// UserAgent returns the default User-Agent value.
func UserAgent() string {
	return "fetchkit/" + String()
}

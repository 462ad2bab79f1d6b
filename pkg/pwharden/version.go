package pwharden

import "runtime/debug"

var (
	Version = "v0.0.0-in-progress"
	Module  = "github.com/coinbase/pwharden-go"
)

// LibraryVersion returns the semantic version populated at build time via
// ldflags. In development it falls back to the module version recorded in
// the build info, then to v0.0.0-in-progress.
func LibraryVersion() string {
	if Version != "v0.0.0-in-progress" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Path == Module && info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
		for _, dep := range info.Deps {
			if dep.Path == Module {
				return dep.Version
			}
		}
	}
	return Version
}

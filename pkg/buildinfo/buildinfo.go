// Package buildinfo contains build information.
//
// Build information should be set during compilation by passing
// -ldflags "-X github.com/saplingui/sapling/pkg/buildinfo.Var=value" to
// "go build".
package buildinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/saplingui/sapling/pkg/prog"
)

// Version identifies the version of sapling. On development commits, it
// identifies the next release.
const Version = "v0.3.0"

// VersionSuffix is appended to Version in the output of "sapling -version"
// to build the full version string. This can be overriden when building.
var VersionSuffix = "-dev.unknown"

// Program is the buildinfo subprogram.
var Program prog.Program = program{}

type program struct{}

func (program) Run(fds [3]*os.File, f *prog.Flags, _ []string) error {
	if !f.Version {
		return prog.ErrNotSuitable
	}
	fullVersion := Version + VersionSuffix
	if f.JSON {
		out, _ := json.Marshal(map[string]string{
			"version":   fullVersion,
			"goversion": runtime.Version(),
		})
		fmt.Fprintln(fds[1], string(out))
	} else {
		fmt.Fprintln(fds[1], fullVersion)
	}
	return nil
}

// Package buildinfo reports which clawctl build is running.
//
// Release builds stamp the values with ldflags:
//
//	go build -ldflags "-X github.com/clawnch/clawctl/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/clawnch/clawctl/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)" ./cmd/clawctl
//
// Binaries from "go install" carry no ldflags. For those the module version
// and VCS revision embedded by the toolchain are used instead.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

var fillOnce sync.Once

// fill replaces unset values with what the Go toolchain recorded.
func fill() {
	fillOnce.Do(func() {
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if Commit == "" {
					Commit = s.Value
					if len(Commit) > 12 {
						Commit = Commit[:12]
					}
				}
			case "vcs.time":
				if Date == "" {
					Date = s.Value
				}
			}
		}
	})
}

// Template is the cobra version template, printed by "clawctl --version".
func Template() string {
	fill()
	s := "{{.Name}} " + Version
	if Commit != "" {
		s += " (" + Commit + ")"
	}
	if Date != "" {
		s += " built " + Date
	}
	return s + fmt.Sprintf(" %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// UserAgent is sent with every API request, e.g. "clawctl/v0.3.0 (linux/amd64)".
func UserAgent() string {
	fill()
	return fmt.Sprintf("clawctl/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}

// Package info holds the name and build metadata of the program.
package info

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

var (
	name = "iconloader"

	// Set via ldflags.
	version     = "dev build"
	buildSource = "unknown"
	buildTime   = "unknown"

	info     *Info
	loadInfo sync.Once
)

func init() {
	// Replace space placeholders.
	buildSource = strings.ReplaceAll(buildSource, "_", " ")
	buildTime = strings.ReplaceAll(buildTime, "_", " ")

	// Convert version string from git tag to expected format.
	version = strings.TrimSpace(strings.ReplaceAll(strings.TrimPrefix(version, "v"), "_", " "))
}

// Info holds the programs meta information.
type Info struct {
	Name    string
	Version string

	Source    string
	BuildTime string
	GoVersion string

	Commit     string
	CommitTime string
	Dirty      bool
}

// Set sets the program name and, if not empty, the version.
func Set(setName string, setVersion string) {
	name = setName
	if setVersion != "" {
		version = setVersion
	}
}

// GetInfo returns all the meta information about the program.
func GetInfo() *Info {
	loadInfo.Do(func() {
		info = &Info{
			Name:       name,
			Version:    version,
			Source:     buildSource,
			BuildTime:  buildTime,
			GoVersion:  runtime.Version(),
			Commit:     "unknown",
			CommitTime: "unknown",
		}

		buildInfo, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		for _, setting := range buildInfo.Settings {
			switch setting.Key {
			case "vcs.revision":
				info.Commit = setting.Value
			case "vcs.time":
				info.CommitTime = setting.Value
			case "vcs.modified":
				info.Dirty = setting.Value == "true"
			}
		}
		if info.Dirty && !strings.HasSuffix(info.Version, "dev build") {
			info.Version += " dev build"
		}
	})

	return info
}

// Version returns the annotated version.
func Version() string {
	return GetInfo().Version
}

// UserAgent returns the user agent used for outgoing requests.
func UserAgent() string {
	info := GetInfo()
	return fmt.Sprintf("%s/%s (%s %s)", info.Name, strings.ReplaceAll(info.Version, " ", "-"), runtime.GOOS, runtime.GOARCH)
}

// FullVersion returns the full and detailed version string.
func FullVersion() string {
	info := GetInfo()
	builder := new(strings.Builder)

	// Name and version.
	fmt.Fprintf(builder, "%s %s\n", info.Name, info.Version)

	// Build info.
	fmt.Fprintf(builder, "\nbuilt with %s for %s/%s\n", info.GoVersion, runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(builder, "  at %s\n", info.BuildTime)

	// Commit info.
	dirtyInfo := "clean"
	if info.Dirty {
		dirtyInfo = "dirty"
	}
	fmt.Fprintf(builder, "\ncommit %s (%s)\n", info.Commit, dirtyInfo)
	fmt.Fprintf(builder, "  at %s\n", info.CommitTime)
	fmt.Fprintf(builder, "  from %s", info.Source)

	return builder.String()
}

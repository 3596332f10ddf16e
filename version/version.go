package version

import (
	"fmt"
	"io"
	"runtime/debug"
	"sync"
)

const packageName = "filekit"

var (
	// These will be set by build flags or default to development values
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info contains version information
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Package   string `json:"package"`
	GoVersion string `json:"go_version"`
}

var buildInfo = sync.OnceValues(debug.ReadBuildInfo)

// setting returns a VCS setting recorded by the go tool, or "".
func setting(key string) string {
	info, ok := buildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// GetVersion returns the version string, preferring compile-time version if available
func GetVersion() string {
	if Version != "dev" && Version != "" {
		return Version
	}
	if info, ok := buildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "development"
}

// GetCommit returns the git commit hash, preferring compile-time commit if available
func GetCommit() string {
	if Commit != "unknown" && Commit != "" {
		return Commit
	}
	if rev := setting("vcs.revision"); rev != "" {
		if setting("vcs.modified") == "true" {
			return rev + "-dirty"
		}
		return rev
	}
	return "unknown"
}

// GetBuildDate returns the build date, preferring compile-time date if available
func GetBuildDate() string {
	if Date != "unknown" && Date != "" {
		return Date
	}
	if t := setting("vcs.time"); t != "" {
		return t
	}
	return "unknown"
}

// GetInfo returns complete version information
func GetInfo() Info {
	info := Info{
		Version: GetVersion(),
		Commit:  GetCommit(),
		Date:    GetBuildDate(),
		Package: packageName,
	}
	if bi, ok := buildInfo(); ok {
		info.GoVersion = bi.GoVersion
	}
	return info
}

// GetFullVersion returns a formatted version string with commit and date
func GetFullVersion() string {
	info := GetInfo()
	if info.Commit == "unknown" || len(info.Commit) <= 7 {
		return info.Version
	}
	shortCommit := info.Commit[:7]
	if info.Date != "unknown" {
		return fmt.Sprintf("%s (%s, built %s)", info.Version, shortCommit, info.Date)
	}
	return fmt.Sprintf("%s (%s)", info.Version, shortCommit)
}

// Fprint writes human-readable version information to w.
func Fprint(w io.Writer) {
	info := GetInfo()
	fmt.Fprintf(w, "%s version %s\n", info.Package, GetFullVersion())
	fmt.Fprintf(w, "Commit: %s\n", info.Commit)
	fmt.Fprintf(w, "Build Date: %s\n", info.Date)
	if info.GoVersion != "" {
		fmt.Fprintf(w, "Go: %s\n", info.GoVersion)
	}
}

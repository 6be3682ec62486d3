package config

import (
	"os"
	"runtime/debug"
	"strings"
)

const fallbackVersion = "0.1.0"

// GetVersion returns APP_VERSION, else the VERSION file, else the fallback,
// with the VCS revision appended when the binary carries one.
func GetVersion() string {
	if envVersion := strings.TrimSpace(os.Getenv("APP_VERSION")); envVersion != "" {
		return envVersion
	}

	version := readVersionFile("VERSION")
	if rev := vcsRevision(); rev != "" {
		return version + "+" + rev
	}
	return version
}

func readVersionFile(path string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		return fallbackVersion
	}
	if v := strings.TrimSpace(string(content)); v != "" {
		return v
	}
	return fallbackVersion
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}

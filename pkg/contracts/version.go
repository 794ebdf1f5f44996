package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the application
	Version = "0.3.0"

	// DataFormatVersion is the version of the exported chart and CSV formats
	DataFormatVersion = "v1"
)

// Set during build using ldflags
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo describes the running binary
type VersionInfo struct {
	Version    string `json:"version"`
	DataFormat string `json:"data_format"`
	BuildTime  string `json:"build_time"`
	GitCommit  string `json:"git_commit"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:    Version,
		DataFormat: DataFormatVersion,
		BuildTime:  BuildTime,
		GitCommit:  GitCommit,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("catalog v%s (format %s, built: %s, commit: %s, go: %s, %s)",
		v.Version, v.DataFormat, v.BuildTime, v.GitCommit, v.GoVersion, v.Platform)
}

// GetFullVersionString returns a detailed version string
func GetFullVersionString() string {
	return GetVersionInfo().String()
}

package util

import (
	"runtime"
	"runtime/debug"
)

// 构建时通过 -ldflags "-X text-ingest/pkg/util.version=..." 注入
var (
	version   = "dev"
	gitCommit = ""
	buildDate = ""
)

type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

// GetVersion 返回版本信息，未注入 commit 时尝试读取 vcs 构建信息
func GetVersion() VersionInfo {
	info := VersionInfo{
		Version:   version,
		GitCommit: gitCommit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	}
	if info.GitCommit == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				switch s.Key {
				case "vcs.revision":
					info.GitCommit = s.Value
				case "vcs.time":
					if info.BuildDate == "" {
						info.BuildDate = s.Value
					}
				}
			}
		}
	}
	return info
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Do not import any other treediff packages to avoid import cycles.

package version

import (
	"fmt"
	"runtime/debug"
)

// Version is the module version of the running binary, or "dev".
var Version, Revision = fromBuildInfo(debug.ReadBuildInfo())

func fromBuildInfo(info *debug.BuildInfo, ok bool) (version, revision string) {
	version = "dev"
	if !ok || info == nil {
		return version, ""
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		version = v
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			revision = s.Value[:7]
		}
	}
	return version, revision
}

// String is the --version text.
func String() string {
	if Revision == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Revision)
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBuildInfo(t *testing.T) {
	v, r := fromBuildInfo(nil, false)
	assert.Equal(t, "dev", v)
	assert.Empty(t, r)

	info := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}
	v, _ = fromBuildInfo(info, true)
	assert.Equal(t, "dev", v)

	info = &debug.BuildInfo{
		Main:     debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}},
	}
	v, r = fromBuildInfo(info, true)
	assert.Equal(t, "v1.4.0", v)
	assert.Equal(t, "0123456", r)
}

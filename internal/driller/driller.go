// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// segmentRegex splits one path segment into its key and an optional [n] or
// [*] index.
var segmentRegex = regexp.MustCompile(`^([^\[\]]+)(\[(\d+|\*)?\])?$`)

// Drill navigates JSON using a dot path. Keys are taken literally, so gjson
// wildcard and modifier characters in snapshot keys do not need escaping by
// the caller. A segment may carry an index: "tags[1]". Without an index a
// one-element array is unwrapped and longer arrays are returned whole.
func Drill(jsonData string, path string) gjson.Result {
	current := gjson.Parse(jsonData)
	if path == "" {
		return current
	}

	for _, p := range strings.Split(path, ".") {
		matches := segmentRegex.FindStringSubmatch(p)
		if len(matches) == 0 {
			return gjson.Result{}
		}

		index := -1
		if matches[3] != "" && matches[3] != "*" {
			i, err := strconv.Atoi(matches[3])
			if err != nil {
				return gjson.Result{}
			}
			index = i
		}

		val := current.Get(gjson.Escape(matches[1]))
		if val.IsArray() {
			arr := val.Array()
			switch {
			case index == -1:
				if len(arr) == 1 {
					val = arr[0]
				}
			case index < len(arr):
				val = arr[index]
			default:
				return gjson.Result{}
			}
		}

		current = val
	}

	return current
}

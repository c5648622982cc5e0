// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/tfctl/treediff/internal/log"
	"github.com/tfctl/treediff/internal/snapshot"
)

// Delta renders prev and next as a line-oriented annotated JSON document,
// with "+" and "-" markers on changed lines. A root that is not a tree
// renders as an empty object. An empty string means the documents are the
// same.
func Delta(prev, next any, color bool) (string, error) {
	log.Debugf(">> Delta()")

	left, err := snapshot.Canonical(asTree(prev))
	if err != nil {
		return "", fmt.Errorf("failed to encode prev: %w", err)
	}
	right, err := snapshot.Canonical(asTree(next))
	if err != nil {
		return "", fmt.Errorf("failed to encode next: %w", err)
	}

	delta, err := gojsondiff.New().Compare(left, right)
	if err != nil {
		return "", fmt.Errorf("failed to compare documents: %w", err)
	}
	if !delta.Modified() {
		return "", nil
	}

	var jdoc map[string]interface{}
	if err := json.Unmarshal(left, &jdoc); err != nil {
		return "", fmt.Errorf("failed to unmarshal prev: %w", err)
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       color,
	}
	return formatter.NewAsciiFormatter(jdoc, config).Format(delta)
}

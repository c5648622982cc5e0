// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tfctl/treediff/internal/log"
	"github.com/tfctl/treediff/internal/snapshot"
)

// DefaultSpec selects every field of a diff row.
const DefaultSpec = "type,path,prev,next"

var lengthRegex = regexp.MustCompile(`-?\d+`)

// Attr is one --attrs entry: a row key, or a dotted path into a row's prev
// and next values, plus how it is shown.
type Attr struct {
	// Key is the row key or dotted path to extract.
	Key string `yaml:"key" json:"Key"`
	// Include is false for attrs used only for filtering and sorting.
	Include bool `yaml:"include" json:"Include"`
	// OutputKey names the field in json/yaml output and the column title in
	// text output.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// TransformSpec is the raw transform letters and length, e.g. "u,20".
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// transform is a parsed TransformSpec. Later letters override earlier ones,
// so a global "*::U" prefix loses to an attr's own "l".
type transform struct {
	lower, upper bool
	quote        bool
	commas       bool
	json         bool
	local, ago   bool
	length       int
}

func parseTransform(spec string) transform {
	var t transform
	for _, r := range spec {
		switch r {
		case 'l', 'L':
			t.lower, t.upper = true, false
		case 'u', 'U':
			t.lower, t.upper = false, true
		case 'q':
			t.quote = true
		case 'c':
			t.commas = true
		case 'j':
			t.json = true
		case 't':
			t.local = true
		case 'T':
			t.ago = true
		}
	}
	if m := lengthRegex.FindAllString(spec, -1); len(m) > 0 {
		t.length, _ = strconv.Atoi(m[len(m)-1])
	}
	return t
}

// Transform applies the attr's TransformSpec to a value:
//
//	l, u  lower or upper case
//	n, -n truncate to n, or elide the middle down to n
//	q     quote
//	c     thousands separators (numbers)
//	j     compact JSON (trees and lists)
//	t, T  RFC3339 timestamps as local time, or as "3 days ago"
func (a *Attr) Transform(value interface{}) interface{} {
	t := parseTransform(a.TransformSpec)

	var s string
	switch v := value.(type) {
	case float64:
		if t.commas {
			return humanize.Commaf(v)
		}
		return value
	case string:
		s = v
	case *snapshot.Tree, []any, map[string]any:
		if !t.json {
			return value
		}
		b, err := snapshot.Canonical(v)
		if err != nil {
			log.Tracef("json transform: err=%v", err)
			return value
		}
		s = string(b)
	default:
		log.Tracef("not transformable: value=%v", value)
		return value
	}

	if t.local || t.ago {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			if t.ago {
				s = humanize.Time(ts)
			} else {
				s = ts.Local().Format("2006-01-02T15:04:05MST")
			}
		}
	}

	switch {
	case t.lower:
		s = strings.ToLower(s)
	case t.upper:
		s = strings.ToUpper(s)
	}

	s = clip(s, t.length)

	if t.quote {
		s = strconv.Quote(s)
	}
	return s
}

// clip truncates s to n bytes, or for negative n elides its middle so that
// about |n| bytes remain. n == 0 leaves s alone.
func clip(s string, n int) string {
	limit := n
	if limit < 0 {
		limit = -limit
	}
	if n == 0 || len(s) <= limit {
		return s
	}
	if n > 0 {
		return s[:n]
	}
	keep := max(limit/2-1, 0)
	return s[:keep] + ".." + s[len(s)-keep:]
}

// AttrList is the ordered set of attrs shaping output rows.
type AttrList []Attr

// Set parses a comma-separated --attrs value and merges it into the list.
// Each spec is key[:outputKey[:transform]]. A leading ! hides the key. An
// attr already in the list, matched by key or output key, is updated in
// place, which is how user specs override command defaults.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	for _, spec := range strings.Split(value, ",") {
		attr, err := parseAttr(spec)
		if err != nil {
			return err
		}
		a.merge(attr)
	}
	log.Debugf("attrs set: %s", a.String())
	return nil
}

func parseAttr(spec string) (Attr, error) {
	fields := strings.SplitN(spec, ":", 3)

	attr := Attr{Include: true, Key: strings.TrimSpace(fields[0])}
	if rest, ok := strings.CutPrefix(attr.Key, "!"); ok {
		attr.Include = false
		attr.Key = rest
	}
	attr.Key = strings.TrimPrefix(attr.Key, ".")
	if attr.Key == "" {
		return attr, fmt.Errorf("empty attribute key in %q", spec)
	}
	if attr.Key == "*" {
		attr.Include = false
	}

	switch {
	case len(fields) == 1:
		keys := snapshot.SplitPath(attr.Key)
		attr.OutputKey = keys[len(keys)-1]
	case strings.TrimSpace(fields[1]) != "":
		attr.OutputKey = strings.TrimSpace(fields[1])
	default:
		attr.OutputKey = attr.Key
	}

	if len(fields) == 3 {
		attr.TransformSpec = strings.TrimSpace(fields[2])
	}
	return attr, nil
}

func (a *AttrList) merge(attr Attr) {
	for i := range *a {
		existing := &(*a)[i]
		if existing.Key == attr.Key || existing.OutputKey == attr.Key {
			existing.Include = attr.Include
			existing.OutputKey = attr.OutputKey
			existing.TransformSpec = attr.TransformSpec
			return
		}
	}
	*a = append(*a, attr)
}

// SetGlobalTransformSpec prefixes every attr's transform with the one given
// to "*", if any.
func (a *AttrList) SetGlobalTransformSpec() error {
	spec := ""
	for _, attr := range *a {
		if attr.Key == "*" {
			spec = attr.TransformSpec
			break
		}
	}
	if spec == "" {
		return nil
	}

	for i := range *a {
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}
	return nil
}

// String renders the list in --attrs syntax.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Type returns the flag type for use with the flag.Value interface.
func (a *AttrList) Type() string { return "list" }

// Parse builds an AttrList from DefaultSpec and then applies spec on top.
func Parse(spec string) (AttrList, error) {
	var list AttrList
	if err := list.Set(DefaultSpec); err != nil {
		return nil, err
	}
	if err := list.Set(spec); err != nil {
		return nil, err
	}
	if err := list.SetGlobalTransformSpec(); err != nil {
		return nil, err
	}
	return list, nil
}

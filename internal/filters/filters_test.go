// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/treediff/internal/attrs"
	"github.com/tfctl/treediff/internal/snapshot"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

type testBuildFiltersCase struct {
	Name      string   `yaml:"name"`
	Spec      string   `yaml:"spec"`
	Delimiter string   `yaml:"delimiter"`
	Want      []Filter `yaml:"want"`
	WantCount int      `yaml:"wantCount"`
}

type testCheckCase[T any] struct {
	Name   string `yaml:"name"`
	Value  T      `yaml:"value"`
	Filter Filter `yaml:"filter"`
	Want   bool   `yaml:"want"`
}

type testApplyFiltersCase struct {
	Name    string   `yaml:"name"`
	Filters []Filter `yaml:"filters"`
	Want    bool     `yaml:"want"`
}

type testFilterDatasetCase struct {
	Name      string   `yaml:"name"`
	Spec      string   `yaml:"spec"`
	WantCount int      `yaml:"wantCount"`
	WantPaths []string `yaml:"wantPaths"`
}

func loadTestData(filename string, v interface{}) error {
	data, err := testDataFS.ReadFile("testdata/" + filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

func TestBuildFilters(t *testing.T) {
	var tests []testBuildFiltersCase
	require.NoError(t, loadTestData("build_filters.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			if tt.Delimiter != "" {
				t.Setenv(EnvDelim, tt.Delimiter)
			}

			got := BuildFilters(tt.Spec)
			require.Len(t, got, tt.WantCount)
			for i, want := range tt.Want {
				assert.Equal(t, want, got[i])
			}
		})
	}
}

func TestCheckStringOperand(t *testing.T) {
	var tests []testCheckCase[string]
	require.NoError(t, loadTestData("check_string.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Want, checkStringOperand(tt.Value, tt.Filter))
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	var tests []testCheckCase[float64]
	require.NoError(t, loadTestData("check_numeric.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Want, checkNumericOperand(tt.Value, tt.Filter))
		})
	}
}

func TestCheckContainsOperand(t *testing.T) {
	var tests []testCheckCase[interface{}]
	require.NoError(t, loadTestData("check_contains.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Want, checkContainsOperand(tt.Value, tt.Filter))
		})
	}
}

func TestApplyFilters(t *testing.T) {
	var tests []testApplyFiltersCase
	require.NoError(t, loadTestData("apply_filters.yaml", &tests))

	row := gjson.Parse(`{
		"type": "changed",
		"path": "artwork.profile",
		"prev": {"city": "Hamburg", "year": null},
		"next": {"city": "Lagos", "year": 1965, "tags": ["bronze", "stone"]}
	}`)

	attrList := attrs.AttrList{
		{Key: "type", OutputKey: "type", Include: true},
		{Key: "path", OutputKey: "where", Include: true},
		{Key: "prev", OutputKey: "prev", Include: true},
		{Key: "next", OutputKey: "next", Include: true},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Want, applyFilters(row, attrList, tt.Filters))
		})
	}
}

func TestFilterDataset(t *testing.T) {
	var tests []testFilterDatasetCase
	require.NoError(t, loadTestData("filter_dataset.yaml", &tests))

	rows := gjson.Parse(`[
		{"type": "removed", "path": "email", "prev": "bhepworth@sculpture.com"},
		{"type": "changed", "path": "firstName", "prev": "Barbara", "next": "Niki"},
		{"type": "changed", "path": "artwork.city", "prev": "Hamburg", "next": "Lagos"},
		{"type": "added", "path": "artwork.year", "next": null}
	]`)

	attrList, err := attrs.Parse("")
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			got := FilterDataset(rows, attrList, tt.Spec)
			require.Len(t, got, tt.WantCount)
			for i, want := range tt.WantPaths {
				assert.Equal(t, want, got[i]["path"])
			}
		})
	}
}

func TestFilterDataset_AbsentVersusNull(t *testing.T) {
	rows := gjson.Parse(`[{"type": "added", "path": "a", "next": null}]`)
	attrList, err := attrs.Parse("")
	require.NoError(t, err)

	got := FilterDataset(rows, attrList, "")
	require.Len(t, got, 1)

	_, hasPrev := got[0]["prev"]
	assert.False(t, hasPrev)

	next, hasNext := got[0]["next"]
	assert.True(t, hasNext)
	assert.Nil(t, next)
}

func TestFilterDataset_ObjectsKeepOrder(t *testing.T) {
	rows := gjson.Parse(`[{"type": "added", "path": "artwork", "next": {"title": "Oval Sculpture", "city": "London"}}]`)
	attrList, err := attrs.Parse("")
	require.NoError(t, err)

	got := FilterDataset(rows, attrList, "")
	require.Len(t, got, 1)

	next, ok := got[0]["next"].(*snapshot.Tree)
	require.True(t, ok)
	assert.Equal(t, []string{"title", "city"}, next.Keys())
}

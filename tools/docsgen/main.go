// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Command docsgen renders the per-command markdown and man pages from
// docs/templates/treediff.yaml.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Subcommands []Subcommand `yaml:"subcommands"`
	Common      Common       `yaml:"common"`
}

type Common struct {
	Flags []Flag `yaml:"flags"`
}

type Subcommand struct {
	ID          string    `yaml:"id"`
	Short       string    `yaml:"short"`
	Description string    `yaml:"description"`
	Usage       string    `yaml:"usage"`
	Flags       []Flag    `yaml:"flags"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`

	// NoCommon suppresses the shared output flags for commands that do not
	// render through the output pipeline.
	NoCommon bool `yaml:"noCommon,omitempty"`
}

type Flag struct {
	ID          string `yaml:"id"`
	Syntax      string `yaml:"syntax"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
	More        string `yaml:"more,omitempty"`
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type TemplateData struct {
	Subcommand
	Date    string
	Version string
}

type Outputs struct {
	Template string
	Folder   string
	Prefix   string
	Suffix   string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen DOCS_DIR")
		os.Exit(1)
	}

	if err := generate(os.Args[1], time.Now(), getVersion()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// generate renders every subcommand through every output template.
func generate(docs string, now time.Time, version string) error {
	config, err := loadConfig(filepath.Join(docs, "templates", "treediff.yaml"))
	if err != nil {
		return err
	}

	types := []Outputs{
		{Template: filepath.Join(docs, "templates", "treediff.md.tmpl"), Folder: filepath.Join(docs, "commands"), Suffix: ".md"},
		{Template: filepath.Join(docs, "templates", "treediff.man.tmpl"), Folder: filepath.Join(docs, "man", "share", "man1"), Prefix: "treediff-", Suffix: ".1"},
	}

	for _, sub := range config.Subcommands {
		data := TemplateData{
			Subcommand: withCommonFlags(sub, config.Common),
			Date:       now.Format("January 2, 2006"),
			Version:    version,
		}

		for _, t := range types {
			if err := render(t, data); err != nil {
				return err
			}
		}
	}
	return nil
}

func loadConfig(path string) (Config, error) {
	var config Config
	data, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// withCommonFlags merges the shared flags into sub's own, sorted by ID.
func withCommonFlags(sub Subcommand, common Common) Subcommand {
	var merged []Flag
	if !sub.NoCommon {
		merged = append(merged, common.Flags...)
	}
	merged = append(merged, sub.Flags...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ID < merged[j].ID
	})
	sub.Flags = merged
	return sub
}

func render(t Outputs, data TemplateData) error {
	if err := os.MkdirAll(t.Folder, 0o755); err != nil { //nolint:mnd
		return err
	}

	tmpl, err := template.ParseFiles(t.Template)
	if err != nil {
		return err
	}

	path := filepath.Join(t.Folder, t.Prefix+data.ID+t.Suffix)
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Println("Generating", path)
	return tmpl.Execute(file, data)
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/treediff/internal/cacheutil"
	"github.com/tfctl/treediff/internal/config"
	"github.com/tfctl/treediff/internal/differ"
	"github.com/tfctl/treediff/internal/log"
	"github.com/tfctl/treediff/internal/meta"
	"github.com/tfctl/treediff/internal/output"
	"github.com/tfctl/treediff/internal/session"
)

const (
	maxHistory  = 1000
	maxLogLines = 12
)

// recallDir is the cache subdirectory holding input recall, one entry per
// edited document.
var recallDir = []string{"recall"}

// editCommandAction is the action handler for the "edit" subcommand. It loads
// the initial document and launches an interactive console that applies
// script ops to it, one per line.
func editCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if err := requireArgs(cmd, 1); err != nil {
		return err
	}

	arg := cmd.Args().Get(0)
	initial, err := LoadInput(cmd, arg)
	if err != nil {
		return err
	}

	cleanHours, _ := config.GetInt("cache.clean", 0)
	if err := cacheutil.Purge(cleanHours); err != nil {
		log.WithError(err).Warn("cache purge failed")
	}

	s := session.New(initial)
	defer s.Close()

	p := tea.NewProgram(newEditModel(s, recallKey(cmd, arg)), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}

	return printFinal(cmd, s)
}

// printFinal writes the edited document in the --print format.
func printFinal(cmd *cli.Command, s *session.Session) error {
	w := cmdWriter(cmd)
	switch cmd.String("print") {
	case "yaml":
		out, err := yaml.Marshal(s.Value())
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}
		_, err = w.Write(out)
		return err
	case "none":
		return nil
	default:
		_, err := fmt.Fprintln(w, s.Value().String())
		return err
	}
}

// editModel represents the Bubble Tea model for the edit command.
type editModel struct {
	session   *session.Session
	input     textinput.Model
	history   []string
	histIndex int
	log       []string
	recallKey string
}

func newEditModel(s *session.Session, recallKey string) editModel {
	ti := textinput.New()
	ti.Placeholder = ""
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 999
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorBlink)

	return editModel{
		session:   s,
		input:     ti,
		history:   loadHistory(recallKey),
		histIndex: -1,
		log:       []string{"Type 'help' for syntax, 'exit' or Ctrl+C to quit."},
		recallKey: recallKey,
	}
}

func (m editModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			entry := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if entry == "" {
				return m, nil
			}
			if entry == "exit" || entry == "quit" {
				return m, tea.Quit
			}

			m.history = append(m.history, entry)
			m.histIndex = -1
			saveHistory(m.recallKey, m.history)

			m.addLog("> " + entry)
			if entry == "help" {
				m.addLog(editHelp)
				return m, nil
			}
			m.addLog(m.apply(entry))
			return m, nil

		case "ctrl+z":
			if m.session.Undo() {
				m.addLog("undo: " + m.session.LastDiff().Summary())
			} else {
				m.addLog("nothing to undo")
			}
			return m, nil

		case "ctrl+y":
			if m.session.Redo() {
				m.addLog("redo: " + m.session.LastDiff().Summary())
			} else {
				m.addLog("nothing to redo")
			}
			return m, nil

		case "up":
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIndex == -1 {
				m.histIndex = len(m.history) - 1
			} else if m.histIndex > 0 {
				m.histIndex--
			}
			m.input.SetValue(m.history[m.histIndex])
			m.input.CursorEnd()
			return m, nil

		case "down":
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIndex >= 0 && m.histIndex < len(m.history)-1 {
				m.histIndex++
				m.input.SetValue(m.history[m.histIndex])
				m.input.CursorEnd()
			} else {
				m.histIndex = -1
				m.input.SetValue("")
			}
			return m, nil

		case "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// apply runs one script line against the session and describes the outcome.
func (m *editModel) apply(entry string) string {
	op, ok, err := session.ParseOp(entry)
	if err != nil {
		return "error: " + err.Error()
	}
	if !ok {
		return "ignored"
	}

	changed, err := m.session.Apply(op)
	switch {
	case err != nil:
		return "error: " + err.Error()
	case op.Kind == session.OpBegin:
		return "grouping edits until commit"
	case m.session.Pending():
		return "queued"
	case changed:
		return m.session.LastDiff().Summary()
	case op.Kind == session.OpUndo:
		return "nothing to undo"
	case op.Kind == session.OpRedo:
		return "nothing to redo"
	default:
		return "no change"
	}
}

func (m *editModel) addLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

func (m editModel) View() string {
	var (
		promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#623CE4"))
		titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(editColor("title", "#f6be00")))
		dimStyle    = lipgloss.NewStyle().Faint(true)
	)

	value := m.session.Value()
	doc, err := yaml.Marshal(value)
	if err != nil {
		doc = []byte(fmt.Sprintf("<%v>\n", err))
	}

	var lines []string
	lines = append(lines, titleStyle.Render(fmt.Sprintf("%s  %s", m.session.Status(), humanize.Bytes(uint64(len(value.String()))))))
	if m.session.Pending() {
		lines = append(lines, dimStyle.Render("(begin: edits are queued until commit)"))
	}
	lines = append(lines, strings.TrimRight(string(doc), "\n"), "")

	if last := m.session.LastDiff(); !last.Empty() {
		lines = append(lines, titleStyle.Render("Last change"))
		for _, c := range last {
			lines = append(lines, changeStyle(c.Kind).Render("  "+output.FormatChange(c)))
		}
		lines = append(lines, "")
	}

	lines = append(lines, m.log...)
	lines = append(lines, promptStyle.Render("> ")+m.input.View())

	return strings.Join(lines, "\n")
}

func changeStyle(kind differ.Kind) lipgloss.Style {
	defaults := map[differ.Kind]string{
		differ.Added:   "#3fb950",
		differ.Removed: "#f85149",
		differ.Changed: "#d29922",
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(editColor(string(kind), defaults[kind])))
}

// editColor reads colors.<name> from the config.
func editColor(name, fallback string) string {
	c, err := config.GetString("colors."+name, fallback)
	if err != nil || c == "" {
		return fallback
	}
	return c
}

const editHelp = `Edit syntax:
  set <path> <value>     set a value; JSON literals are parsed, anything else is text
                         set artwork.city "Lagos"   set tags ["bronze","stone"]
  del <path>             delete a key
  undo | redo            step through history (also Ctrl+Z / Ctrl+Y)
  begin ... commit       apply the set and del lines in between as one step
  replace <json>         replace the whole document

  Navigation:
     ↑/↓ arrows          navigate command history
     Ctrl+C, exit        quit and print the document`

// recallKey names the recall entry for the edited document: its absolute
// path, so each document keeps its own input history.
func recallKey(cmd *cli.Command, arg string) string {
	path, _, _ := strings.Cut(arg, "::")
	if path == "-" {
		return "stdin"
	}
	return resolvePath(cmd, path)
}

func loadHistory(key string) []string {
	entry, ok := cacheutil.Read(recallDir, key)
	if !ok {
		return nil
	}
	return entry.Lines()
}

func saveHistory(key string, history []string) {
	if key == "" {
		return
	}
	if err := cacheutil.WriteLines(recallDir, key, history, maxHistory); err != nil {
		log.Debugf("history not saved: err=%v", err)
	}
}

// editCommandBuilder constructs the cli.Command for "edit" and wires up
// metadata, flags, and the action handler.
func editCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "edit a document interactively with undo and redo",
		UsageText: "treediff edit INITIAL [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "print",
				Usage: "format of the document printed on exit (json, yaml, none)",
				Value: "json",
				Validator: func(value string) error {
					switch value {
					case "json", "yaml", "none":
						return nil
					}
					return fmt.Errorf("must be one of [json yaml none]")
				},
			},
			NewPassphraseFlag(),
		},
		Action: editCommandAction,
	}
}

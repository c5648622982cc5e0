// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/treediff/internal/cacheutil"
	"github.com/tfctl/treediff/internal/session"
	"github.com/tfctl/treediff/internal/snapshot"
)

func newTestEditModel(t *testing.T) (editModel, *session.Session) {
	t.Helper()
	initial := snapshot.New(
		snapshot.Pair{Key: "firstName", Value: "Barbara"},
		snapshot.Pair{Key: "artwork", Value: snapshot.New(snapshot.Pair{Key: "city", Value: "Hamburg"})},
	)
	s := session.New(initial)
	t.Cleanup(s.Close)
	t.Setenv(cacheutil.EnvDir, t.TempDir())
	t.Setenv(cacheutil.EnvEnabled, "")
	return newEditModel(s, "/work/prev.json"), s
}

func enter(t *testing.T, m editModel, line string) editModel {
	t.Helper()
	m.input.SetValue(line)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(editModel)
}

func key(t *testing.T, m editModel, k tea.KeyType) editModel {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: k})
	return next.(editModel)
}

func lastLog(m editModel) string {
	return m.log[len(m.log)-1]
}

func TestEditModel_AppliesOps(t *testing.T) {
	m, s := newTestEditModel(t)

	m = enter(t, m, `set artwork.city "Lagos"`)
	assert.Equal(t, "0 added, 0 removed, 1 changed", lastLog(m))
	city, _ := s.Value().Lookup("artwork.city")
	assert.Equal(t, "Lagos", city)
	assert.Equal(t, "Step 2 / 2", s.Status())

	m = enter(t, m, `set artwork.city "Lagos"`)
	assert.Equal(t, "no change", lastLog(m))

	m = enter(t, m, "set firstName.initial B")
	assert.Contains(t, lastLog(m), "error:")

	m = enter(t, m, "frobnicate")
	assert.Contains(t, lastLog(m), "error:")

	m = enter(t, m, "# just a comment")
	assert.Equal(t, "ignored", lastLog(m))

	assert.Equal(t, "Step 2 / 2", s.Status())
}

func TestEditModel_Groups(t *testing.T) {
	m, s := newTestEditModel(t)

	m = enter(t, m, "begin")
	assert.Equal(t, "grouping edits until commit", lastLog(m))
	m = enter(t, m, "set a 1")
	assert.Equal(t, "queued", lastLog(m))
	m = enter(t, m, "set b 2")
	assert.Contains(t, m.View(), "queued until commit")

	m = enter(t, m, "commit")
	assert.Equal(t, "2 added, 0 removed, 0 changed", lastLog(m))
	assert.Equal(t, "Step 2 / 2", s.Status())
}

func TestEditModel_UndoRedoKeys(t *testing.T) {
	m, s := newTestEditModel(t)

	m = key(t, m, tea.KeyCtrlZ)
	assert.Equal(t, "nothing to undo", lastLog(m))

	m = enter(t, m, "del firstName")
	m = key(t, m, tea.KeyCtrlZ)
	assert.Equal(t, "undo: 1 added, 0 removed, 0 changed", lastLog(m))
	assert.True(t, s.Value().Has("firstName"))

	m = key(t, m, tea.KeyCtrlY)
	assert.Equal(t, "redo: 0 added, 1 removed, 0 changed", lastLog(m))
	assert.False(t, s.Value().Has("firstName"))

	m = key(t, m, tea.KeyCtrlY)
	assert.Equal(t, "nothing to redo", lastLog(m))
}

func TestEditModel_HistoryRecall(t *testing.T) {
	m, _ := newTestEditModel(t)

	m = enter(t, m, "set a 1")
	m = enter(t, m, "set b 2")

	m = key(t, m, tea.KeyUp)
	assert.Equal(t, "set b 2", m.input.Value())
	m = key(t, m, tea.KeyUp)
	assert.Equal(t, "set a 1", m.input.Value())
	m = key(t, m, tea.KeyUp)
	assert.Equal(t, "set a 1", m.input.Value(), "stops at the oldest entry")
	m = key(t, m, tea.KeyDown)
	assert.Equal(t, "set b 2", m.input.Value())
	m = key(t, m, tea.KeyDown)
	assert.Equal(t, "", m.input.Value())

	saved, ok := cacheutil.Read(recallDir, m.recallKey)
	require.True(t, ok)
	assert.Equal(t, "set a 1\nset b 2\n", string(saved.Data))
	assert.Equal(t, []string{"set a 1", "set b 2"}, loadHistory(m.recallKey))
	assert.Empty(t, loadHistory("/work/other.json"), "recall is per document")
}

func TestEditModel_View(t *testing.T) {
	m, _ := newTestEditModel(t)

	m = enter(t, m, `set artwork.city "Lagos"`)
	view := m.View()

	assert.Contains(t, view, "Step 2 / 2")
	assert.Contains(t, view, "city: Lagos")
	assert.Contains(t, view, `artwork.city changed from "Hamburg" to "Lagos"`)
	assert.Contains(t, view, `> set artwork.city "Lagos"`)
}

func TestEditModel_Quit(t *testing.T) {
	m, _ := newTestEditModel(t)

	m.input.SetValue("exit")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

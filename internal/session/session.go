// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/tfctl/treediff/internal/differ"
	"github.com/tfctl/treediff/internal/draft"
	"github.com/tfctl/treediff/internal/history"
	"github.com/tfctl/treediff/internal/log"
	"github.com/tfctl/treediff/internal/snapshot"
)

// Assignment is one path/value pair for Set.
type Assignment struct {
	Path  string
	Value any
}

// Session is one editing timeline. It is not safe for concurrent use.
type Session struct {
	buf         *history.Buffer[*snapshot.Tree]
	prev        *snapshot.Tree
	last        differ.Result
	unsubscribe func()

	grouping bool
	group    []Op
}

// New starts a session at initial.
func New(initial *snapshot.Tree) *Session {
	if initial == nil {
		initial = snapshot.Empty()
	}
	s := &Session{
		buf:  history.New(initial),
		prev: initial,
		last: differ.Result{},
	}
	s.unsubscribe = s.buf.Subscribe(s.observe)
	return s
}

func (s *Session) observe(st history.State[*snapshot.Tree]) {
	s.last = differ.Diff(s.prev, st.Value)
	s.prev = st.Value
	log.Debugf("session: step %d/%d: %s", st.Pointer+1, st.Length, s.last.Summary())
}

// Close detaches the session from its buffer.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Buffer exposes the underlying history, e.g. for extra observers.
func (s *Session) Buffer() *history.Buffer[*snapshot.Tree] {
	return s.buf
}

// Value returns the current snapshot.
func (s *Session) Value() *snapshot.Tree {
	return s.buf.Value()
}

// LastDiff returns the changes made by the last effective operation.
func (s *Session) LastDiff() differ.Result {
	return s.last
}

// Status renders the cursor as "Step k / n".
func (s *Session) Status() string {
	return fmt.Sprintf("Step %d / %d", s.buf.Pointer()+1, s.buf.Length())
}

// Edit runs recipe as one draft edit and pushes the result. It reports
// whether anything changed; an edit that changes nothing is not pushed.
func (s *Session) Edit(recipe func(*draft.Draft) error) (bool, error) {
	cur := s.buf.Value()
	next, err := draft.Produce(cur, recipe)
	if err != nil {
		return false, err
	}
	if next == cur {
		return false, nil
	}
	s.buf.Push(next)
	return true, nil
}

// Set applies every assignment in one edit.
func (s *Session) Set(assignments ...Assignment) (bool, error) {
	return s.Edit(func(d *draft.Draft) error {
		for _, a := range assignments {
			if err := d.Set(a.Path, a.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes every path in one edit.
func (s *Session) Delete(paths ...string) (bool, error) {
	return s.Edit(func(d *draft.Draft) error {
		for _, p := range paths {
			if err := d.Delete(p); err != nil {
				return err
			}
		}
		return nil
	})
}

// Update pushes the tree fn derives from the current value. fn is expected to
// build its result with spread-style updates (With, SetIn), leaving the
// current value untouched.
func (s *Session) Update(fn func(*snapshot.Tree) (*snapshot.Tree, error)) (bool, error) {
	cur := s.buf.Value()
	next, err := fn(cur)
	if err != nil {
		return false, err
	}
	return s.Replace(next), nil
}

// Replace pushes next unless it is the current value.
func (s *Session) Replace(next *snapshot.Tree) bool {
	if next == nil {
		next = snapshot.Empty()
	}
	if next == s.buf.Value() {
		return false
	}
	s.buf.Push(next)
	return true
}

func (s *Session) Undo() bool {
	return s.buf.Undo()
}

func (s *Session) Redo() bool {
	return s.buf.Redo()
}

// Pending reports whether a begin group is open.
func (s *Session) Pending() bool {
	return s.grouping
}

// Apply runs one script op. Set and del ops inside a begin group are queued
// and applied together at commit.
func (s *Session) Apply(op Op) (bool, error) {
	switch op.Kind {
	case OpBegin:
		if s.grouping {
			return false, fmt.Errorf("%w: nested begin", ErrScript)
		}
		s.grouping = true
		s.group = nil
		return false, nil

	case OpCommit:
		if !s.grouping {
			return false, fmt.Errorf("%w: commit without begin", ErrScript)
		}
		group := s.group
		s.grouping = false
		s.group = nil
		return s.Edit(func(d *draft.Draft) error {
			for _, o := range group {
				if err := applyToDraft(d, o); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if s.grouping {
		switch op.Kind {
		case OpSet, OpDel:
			s.group = append(s.group, op)
			return false, nil
		default:
			return false, fmt.Errorf("%w: %s not allowed between begin and commit", ErrScript, op.Kind)
		}
	}

	switch op.Kind {
	case OpSet, OpDel:
		return s.Edit(func(d *draft.Draft) error {
			return applyToDraft(d, op)
		})
	case OpUndo:
		return s.Undo(), nil
	case OpRedo:
		return s.Redo(), nil
	case OpReplace:
		t, _ := op.Value.(*snapshot.Tree)
		return s.Replace(t), nil
	}
	return false, fmt.Errorf("%w: unknown op %q", ErrScript, op.Kind)
}

func applyToDraft(d *draft.Draft, op Op) error {
	if op.Kind == OpDel {
		return d.Delete(op.Path)
	}
	return d.Set(op.Path, op.Value)
}

// Step records the outcome of one op in Run.
type Step struct {
	Index   int
	Op      string
	Pointer int
	Length  int
	Changed bool
	Bytes   int
	Diff    differ.Result
}

// Size renders Bytes for humans, e.g. "1.2 kB".
func (st Step) Size() string {
	return humanize.Bytes(uint64(st.Bytes))
}

// Run applies ops in order and records a Step for each. It stops at the
// first failing op and returns the steps taken so far.
func (s *Session) Run(ops []Op) ([]Step, error) {
	steps := make([]Step, 0, len(ops))
	for i, op := range ops {
		changed, err := s.Apply(op)
		if err != nil {
			if op.Line > 0 {
				return steps, fmt.Errorf("line %d: %s: %w", op.Line, op.Text, err)
			}
			return steps, fmt.Errorf("op %d: %s: %w", i+1, op.Text, err)
		}

		st := Step{
			Index:   i + 1,
			Op:      op.Text,
			Pointer: s.buf.Pointer(),
			Length:  s.buf.Length(),
			Changed: changed,
			Bytes:   len(s.Value().String()),
		}
		if changed {
			st.Diff = s.last
		}
		steps = append(steps, st)
	}

	if s.grouping {
		return steps, fmt.Errorf("%w: begin without commit", ErrScript)
	}
	return steps, nil
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tfctl/treediff/internal/snapshot"
)

// ErrScript is wrapped by every script parse and sequencing error.
var ErrScript = errors.New("script error")

// OpKind names a script operation.
type OpKind string

const (
	OpSet     OpKind = "set"
	OpDel     OpKind = "del"
	OpUndo    OpKind = "undo"
	OpRedo    OpKind = "redo"
	OpBegin   OpKind = "begin"
	OpCommit  OpKind = "commit"
	OpReplace OpKind = "replace"
)

// Op is one parsed script line.
type Op struct {
	Kind  OpKind
	Path  string
	Value any
	Line  int
	Text  string
}

func (o Op) String() string {
	return o.Text
}

// ParseOp parses a single script line. It returns ok false for blank lines
// and comments.
func ParseOp(line string) (op Op, ok bool, err error) {
	text := strings.TrimSpace(line)
	if text == "" || strings.HasPrefix(text, "#") {
		return Op{}, false, nil
	}

	word, rest, _ := strings.Cut(text, " ")
	rest = strings.TrimSpace(rest)
	op = Op{Kind: OpKind(strings.ToLower(word)), Text: text}

	switch op.Kind {
	case OpUndo, OpRedo, OpBegin, OpCommit:
		if rest != "" {
			return Op{}, false, fmt.Errorf("%w: %s takes no arguments", ErrScript, op.Kind)
		}

	case OpDel:
		if rest == "" || strings.ContainsAny(rest, " \t") {
			return Op{}, false, fmt.Errorf("%w: usage: del <path>", ErrScript)
		}
		op.Path = rest

	case OpSet:
		path, raw, _ := strings.Cut(rest, " ")
		raw = strings.TrimSpace(raw)
		if path == "" || raw == "" {
			return Op{}, false, fmt.Errorf("%w: usage: set <path> <value>", ErrScript)
		}
		op.Path = path
		if op.Value, err = parseValue(raw); err != nil {
			return Op{}, false, fmt.Errorf("%w: %s: %w", ErrScript, path, err)
		}

	case OpReplace:
		v, err := snapshot.ParseJSON([]byte(rest))
		if err != nil {
			return Op{}, false, fmt.Errorf("%w: replace: %w", ErrScript, err)
		}
		t, isTree := v.(*snapshot.Tree)
		if !isTree {
			return Op{}, false, fmt.Errorf("%w: replace needs a JSON object", ErrScript)
		}
		op.Value = t

	default:
		return Op{}, false, fmt.Errorf("%w: unknown op %q", ErrScript, word)
	}

	return op, true, nil
}

// parseValue decodes raw as JSON when it is valid and keeps it as text
// otherwise.
func parseValue(raw string) (any, error) {
	if !gjson.Valid(raw) {
		return raw, nil
	}
	return snapshot.ParseJSON([]byte(raw))
}

// ParseScript reads ops from r, one per line.
func ParseScript(r io.Reader) ([]Op, error) {
	var ops []Op
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	n := 0
	for scanner.Scan() {
		n++
		op, ok, err := ParseOp(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if ok {
			op.Line = n
			ops = append(ops, op)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ops, nil
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/treediff/internal/meta"
)

const bashCompletionScript = `# bash completion for treediff
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_treediff()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "diff edit replay completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --output -o --padding --passphrase -p --sort -s --titles -t"

    case "$cmd" in
        diff)
            local opts="$common --chop --summary"
            ;;
        replay)
            local opts="$common --final --verbose"
            ;;
        edit)
            local opts="--passphrase -p --print"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json yaml raw delta" -- "$cur") )
            return 0
            ;;
        --print)
            COMPREPLY=( $(compgen -W "json yaml none" -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Document arguments are files.
    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -o filenames -F _treediff treediff
`

const zshCompletionScript = `#compdef treediff

_treediff() {
  local -a cmds
  cmds=(
    'diff:show the structural differences between two documents'
    'edit:edit a document interactively with undo and redo'
    'replay:apply a script of edits and show each step'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml raw delta)'
  '--padding[spaces between text columns]:padding'
  '(-p --passphrase)'{-p,--passphrase}'[encrypted state passphrase]:passphrase'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'treediff commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    diff)
      _arguments -C \
        $common \
        '--chop[chop the common prefix from changed paths]' \
        '--summary[only print change counts]' \
        '1:prev:_files' \
        '2:next:_files'
      ;;
    replay)
      _arguments -C \
        $common \
        '--final[print the final document]' \
        '--verbose[include the changes made by each step]' \
        '1:initial:_files' \
        '2:script:_files'
      ;;
    edit)
      _arguments -C \
        '(-p --passphrase)'{-p,--passphrase}'[encrypted state passphrase]:passphrase' \
        '--print[format printed on exit]:format:(json yaml none)' \
        '1:initial:_files'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:file:_files'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _treediff treediff
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := cmdWriter(cmd)

	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(w, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(w, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: treediff completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "treediff completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}

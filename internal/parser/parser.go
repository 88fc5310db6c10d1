// Package parser is the syntax front-end feeding the runner: it turns
// one logical line of input (already joined across physical lines by
// the outer read loop when a quote or pipe was left open) into an
// []ast.Command tree of pipelines, redirections, and attributes. It is
// kept deliberately small: no functions, no control flow, no
// arithmetic, just enough grammar to drive the job-control engine.
package parser

import (
	"gosh/internal/ast"
	"gosh/internal/token"
)

// Parse lexes and parses one logical input string into a command list.
// Call ast.CheckCompleteness on the result to find out whether the
// outer read loop needs to append another physical line.
func Parse(input string) []ast.Command {
	toks := lex(input)
	return parseTokens(toks)
}

func parseTokens(toks []token.Token) []ast.Command {
	// Drop a trailing comment token entirely; it contributes nothing.
	if len(toks) > 0 && toks[len(toks)-1].Kind == token.Comment {
		toks = toks[:len(toks)-1]
	}

	var cmds []ast.Command
	var seg []token.Token

	flush := func(attrs ast.Attribute) {
		if len(seg) == 0 {
			seg = nil
			return
		}
		cmd := parseCommand(seg)
		cmd.Attrs |= attrs
		cmds = append(cmds, cmd)
		seg = nil
	}

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.Kind == token.Special {
			switch t.Text {
			case "&&":
				flush(ast.ShortCircuitOnFailure)
				continue
			case ";":
				flush(0)
				continue
			case "&":
				flush(ast.InBackground)
				continue
			}
		}
		seg = append(seg, t)
	}
	flush(0)

	return cmds
}

// parseCommand splits one `&&`/`;`/`&`-delimited segment into
// pipe-connected subcommands and attaches their redirections.
func parseCommand(toks []token.Token) ast.Command {
	segments, trailingPipe := splitPipe(toks)

	var cmd ast.Command
	for i, seg := range segments {
		sub := parseSubcommand(seg)
		if i < len(segments)-1 || (i == len(segments)-1 && trailingPipe) {
			sub.Redirections = append(sub.Redirections, ast.Redirection{Kind: ast.Pipe})
		}
		cmd.Subcommands = append(cmd.Subcommands, sub)
	}
	return cmd
}

// splitPipe splits a token run on top-level `|`. A trailing `|` with
// nothing after it yields no final empty segment, but reports
// trailingPipe=true so the caller can mark the continuation.
func splitPipe(toks []token.Token) (segments [][]token.Token, trailingPipe bool) {
	var seg []token.Token
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.Kind == token.Special && t.Text == "|" {
			segments = append(segments, seg)
			seg = nil
			if i == len(toks)-1 {
				trailingPipe = true
			}
			continue
		}
		seg = append(seg, t)
	}
	if len(seg) > 0 || !trailingPipe {
		segments = append(segments, seg)
	}
	return segments, trailingPipe
}

// parseSubcommand pulls redirection operators (< > >>) and their path
// arguments out of one pipe segment; everything left over is argv.
func parseSubcommand(toks []token.Token) ast.Subcommand {
	var sub ast.Subcommand
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.Kind != token.Special {
			sub.Args = append(sub.Args, t)
			continue
		}
		var kind ast.RedirKind
		fd := 1
		switch t.Text {
		case "<":
			kind, fd = ast.FileRead, 0
		case ">":
			kind, fd = ast.FileWrite, 1
		case ">>":
			kind, fd = ast.FileWriteAppend, 1
		default:
			// Unrecognized punctuation in this position; treat as a
			// literal argument rather than silently dropping input.
			sub.Args = append(sub.Args, t)
			continue
		}
		if i+1 < len(toks) {
			i++
			sub.Redirections = append(sub.Redirections, ast.Redirection{Kind: kind, FD: fd, Path: toks[i]})
		}
	}
	return sub
}

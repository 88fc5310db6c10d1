package parser

import (
	"strings"

	"gosh/internal/token"
)

// lex splits one logical input (possibly several physical lines joined
// by the outer read loop while resuming an unterminated quote or a
// trailing pipe) into tokens. Quotes, comments, and the shell's
// punctuation (| & && ; < >> >) are recognized here; everything else is
// a Bare word handed unexpanded to the expander.
func lex(input string) []token.Token {
	var toks []token.Token
	r := []rune(input)
	i, n := 0, len(r)

	atWordStart := true

	for i < n {
		c := r[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++
			atWordStart = true
			continue
		case c == '#' && atWordStart:
			toks = append(toks, token.Token{Kind: token.Comment, Text: string(r[i:])})
			return toks
		case c == '\'':
			text, end, terminated := scanQuoted(r, i+1, '\'')
			kind := token.SingleQuoted
			if !terminated {
				kind = token.UnterminatedSingleQuoted
			}
			toks = append(toks, token.Token{Kind: kind, Text: text})
			i = end
			atWordStart = false
			continue
		case c == '"':
			text, end, terminated := scanQuoted(r, i+1, '"')
			kind := token.DoubleQuoted
			if !terminated {
				kind = token.UnterminatedDoubleQuoted
			}
			toks = append(toks, token.Token{Kind: kind, Text: text})
			i = end
			atWordStart = false
			continue
		case c == '&' && i+1 < n && r[i+1] == '&':
			toks = append(toks, token.Token{Kind: token.Special, Text: "&&"})
			i += 2
			atWordStart = true
			continue
		case c == '&':
			toks = append(toks, token.Token{Kind: token.Special, Text: "&"})
			i++
			atWordStart = true
			continue
		case c == ';':
			toks = append(toks, token.Token{Kind: token.Special, Text: ";"})
			i++
			atWordStart = true
			continue
		case c == '|':
			toks = append(toks, token.Token{Kind: token.Special, Text: "|"})
			i++
			atWordStart = true
			continue
		case c == '>' && i+1 < n && r[i+1] == '>':
			toks = append(toks, token.Token{Kind: token.Special, Text: ">>"})
			i += 2
			atWordStart = true
			continue
		case c == '>':
			toks = append(toks, token.Token{Kind: token.Special, Text: ">"})
			i++
			atWordStart = true
			continue
		case c == '<':
			toks = append(toks, token.Token{Kind: token.Special, Text: "<"})
			i++
			atWordStart = true
			continue
		default:
			start := i
			for i < n && !isBoundary(r[i]) {
				i++
			}
			toks = append(toks, token.Token{Kind: token.Bare, Text: string(r[start:i])})
			atWordStart = false
			continue
		}
	}
	return toks
}

func isBoundary(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '|', '&', ';', '<', '>', '\'', '"':
		return true
	default:
		return false
	}
}

// scanQuoted reads the contents of a quote starting just after the
// opening delimiter at r[start]. It returns the enclosed text, the
// index just past the closing delimiter (or len(r) if never closed),
// and whether a closing delimiter was found.
func scanQuoted(r []rune, start int, delim rune) (text string, end int, terminated bool) {
	var b strings.Builder
	i := start
	for i < len(r) {
		if r[i] == delim {
			return b.String(), i + 1, true
		}
		b.WriteRune(r[i])
		i++
	}
	return b.String(), i, false
}

package scanner

import (
	"testing"

	"github.com/funvibe/esdown/internal/token"
)

func scanAll(t *testing.T, src string, ctxs ...token.Context) []token.Token {
	t.Helper()
	s := New(src)
	var toks []token.Token
	i := 0
	for {
		ctx := token.Default
		if i < len(ctxs) {
			ctx = ctxs[i]
		}
		ty := s.Advance(ctx)
		toks = append(toks, s.Token())
		i++
		if ty == token.EOF {
			return toks
		}
	}
}

func TestScanPunctuatorsAndKeywords(t *testing.T) {
	toks := scanAll(t, "class extends => ... =>")
	want := []token.Type{token.CLASS, token.EXTENDS, token.ARROW, token.ELLIPSIS, token.ARROW, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tok := range toks {
		if tok.Type != want[i] {
			t.Errorf("token %d: got %s, want %s", i, tok.Type, want[i])
		}
	}
}

func TestScanNumberBases(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"0x1F", 31},
		{"0b101", 5},
		{"0o17", 15},
		{"3.14", 3.14},
		{"1e3", 1000},
	}
	for _, c := range cases {
		s := New(c.src)
		ty := s.Advance(token.Default)
		if ty != token.NUMBER {
			t.Fatalf("%s: got %s, want NUMBER (%s)", c.src, ty, s.Error)
		}
		if s.Number != c.want {
			t.Errorf("%s: got %v, want %v", c.src, s.Number, c.want)
		}
	}
}

func TestScanStringEscapes(t *testing.T) {
	s := New(`"a\nb\tc"`)
	ty := s.Advance(token.Default)
	if ty != token.STRING {
		t.Fatalf("got %s, want STRING (%s)", ty, s.Error)
	}
	if s.Value != "a\nb\tc" {
		t.Errorf("got %q", s.Value)
	}
}

func TestScanTemplateHeadAndContinuation(t *testing.T) {
	s := New("`a${b}c`")
	ty := s.Advance(token.Default)
	if ty != token.TEMPLATE || s.Value != "a" || s.TemplateEnd {
		t.Fatalf("head: got %s %q tail=%v (%s)", ty, s.Value, s.TemplateEnd, s.Error)
	}
	ty = s.Advance(token.Default) // "b" identifier
	if ty != token.IDENTIFIER || s.Value != "b" {
		t.Fatalf("middle: got %s %q", ty, s.Value)
	}
	ty = s.Advance(token.TemplateCont)
	if ty != token.TEMPLATE || s.Value != "c" || !s.TemplateEnd {
		t.Fatalf("tail: got %s %q tail=%v (%s)", ty, s.Value, s.TemplateEnd, s.Error)
	}
}

func TestScanRegexVsDivision(t *testing.T) {
	s := New("/abc/g")
	ty := s.Advance(token.Default)
	if ty != token.REGEX || s.Value != "abc" || s.RegExpFlags != "g" {
		t.Fatalf("got %s %q flags=%q (%s)", ty, s.Value, s.RegExpFlags, s.Error)
	}

	s = New("/ 2")
	ty = s.Advance(token.Div)
	if ty != token.SLASH {
		t.Fatalf("with Div context, got %s, want SLASH", ty)
	}
}

func TestOctalLiteralRejectedInStrictMode(t *testing.T) {
	s := New("0755")
	s.SetStrict(true)
	ty := s.Advance(token.Default)
	if ty != token.ILLEGAL {
		t.Fatalf("got %s, want ILLEGAL", ty)
	}
}

func TestNewlineBeforeFlag(t *testing.T) {
	s := New("a\nb")
	s.Advance(token.Default)
	ty := s.Advance(token.Default)
	if ty != token.IDENTIFIER || !s.NewlineBefore {
		t.Fatalf("got %s newlineBefore=%v, want IDENTIFIER with newline", ty, s.NewlineBefore)
	}
}

func TestStripPrologue(t *testing.T) {
	if got := StripPrologue("#!/usr/bin/env node\nvar x = 1;"); got != "\nvar x = 1;" {
		t.Errorf("shebang: got %q", got)
	}
	if got := StripPrologue("﻿var x = 1;"); got != "var x = 1;" {
		t.Errorf("BOM: got %q", got)
	}
}

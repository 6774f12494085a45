package grammar

import "strings"

// joinContinuations removes every `\` immediately followed by a newline
// (C99's physical-to-logical line splicing), per spec §6.
func joinContinuations(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	for i := 0; i < len(src); i++ {
		if src[i] == '\\' && i+1 < len(src) && (src[i+1] == '\n' || (src[i+1] == '\r' && i+2 < len(src) && src[i+2] == '\n')) {
			i++
			if src[i] == '\r' {
				i++
			}
			continue
		}
		b.WriteByte(src[i])
	}
	return b.String()
}

// stripComments removes // line comments and /* */ block comments,
// replacing every byte of a comment with a space (newlines are kept) so
// token boundaries and byte offsets of surrounding text are preserved. Comment markers inside a character or
// string literal are left untouched.
func stripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	inLine, inBlock := false, false
	var inQuote byte
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case inLine:
			if c == '\n' {
				inLine = false
				b.WriteByte(c)
			} else {
				b.WriteByte(' ')
			}
		case inBlock:
			if c == '*' && i+1 < len(src) && src[i+1] == '/' {
				inBlock = false
				b.WriteByte(' ')
				b.WriteByte(' ')
				i++
			} else if c == '\n' {
				b.WriteByte(c)
			} else {
				b.WriteByte(' ')
			}
		case inQuote != 0:
			b.WriteByte(c)
			if c == '\\' && i+1 < len(src) {
				i++
				b.WriteByte(src[i])
				continue
			}
			if c == inQuote {
				inQuote = 0
			}
		case c == '\'' || c == '"':
			inQuote = c
			b.WriteByte(c)
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			inLine = true
			b.WriteByte(' ')
			b.WriteByte(' ')
			i++
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			inBlock = true
			b.WriteByte(' ')
			b.WriteByte(' ')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Preprocess applies spec §6's source-input pipeline: continuation
// splicing, then comment stripping. The result has the same length class
// of semantics as the original but no `\`-newline pairs and no comment
// text, ready to feed to a Parser.
func Preprocess(src string) string {
	return stripComments(joinContinuations(src))
}

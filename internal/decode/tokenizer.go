package decode

import (
	"log/slog"
	"math"
)

// Token is one run in an RLE payload: a color letter followed by its length.
type Token struct {
	Color  byte
	Length int
	// Offset is the byte position of the color letter in the payload.
	Offset int
}

// On reports whether the run lights its pixels. Only 'W' is on; every other
// letter is off.
func (t Token) On() bool {
	return t.Color == 'W'
}

// Tokenizer scans an RLE payload left to right. A token is one ASCII letter
// immediately followed by one or more decimal digits. Bytes that do not start
// a token are skipped.
type Tokenizer struct {
	src string
	pos int
}

// NewTokenizer creates a tokenizer over src.
func NewTokenizer(src string) *Tokenizer {
	return &Tokenizer{src: src}
}

// Next returns the next token, or false once the payload is exhausted.
func (t *Tokenizer) Next() (Token, bool) {
	for t.pos < len(t.src) {
		start := t.pos
		if !isLetter(t.src[start]) || start+1 >= len(t.src) || !isDigit(t.src[start+1]) {
			t.pos++
			continue
		}

		end := start + 1
		length := 0
		for end < len(t.src) && isDigit(t.src[end]) {
			length = addDigit(length, t.src[end])
			end++
		}
		t.pos = end
		return Token{Color: t.src[start], Length: length, Offset: start}, true
	}
	return Token{}, false
}

// Parse collects every token of src in order. Bytes the tokenizer skips are
// logged at debug level with their offset in the payload.
func Parse(src string) []Token {
	var tokens []Token
	tz := NewTokenizer(src)
	for {
		from := tz.pos
		tok, ok := tz.Next()
		if !ok {
			logSkipped(src, from, len(src))
			return tokens
		}
		logSkipped(src, from, tok.Offset)
		tokens = append(tokens, tok)
	}
}

func logSkipped(src string, from, to int) {
	if to <= from {
		return
	}
	slog.Debug("Skipping unrecognized RLE input", "offset", from, "bytes", src[from:to])
}

// addDigit saturates at math.MaxInt; a run that long covers any bitmap.
func addDigit(n int, c byte) int {
	d := int(c - '0')
	if n > (math.MaxInt-d)/10 {
		return math.MaxInt
	}
	return n*10 + d
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

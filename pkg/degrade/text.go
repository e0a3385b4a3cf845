package degrade

import (
	"math/rand"
)

const typoAlphabet = "abcdefghijklmnopqrstuvwxyz"

// TypoOp is one single-character edit
type TypoOp int

const (
	TypoSwap TypoOp = iota
	TypoDelete
	TypoInsert
	TypoSubstitute
)

// WhitespaceOp is one whitespace perturbation
type WhitespaceOp int

const (
	WhitespaceLeading WhitespaceOp = iota
	WhitespaceTrailing
	WhitespaceDoubledInternal
	WhitespaceBoth
)

// Typo applies a uniformly chosen single-character edit at a uniformly chosen
// position. Strings shorter than two characters are returned unchanged.
func Typo(s string, rng *rand.Rand) (string, bool) {
	runes := []rune(s)
	if len(runes) < 2 {
		return s, false
	}
	return ApplyTypo(runes, TypoOp(rng.Intn(4)), rng), true
}

// ApplyTypo applies op to runes. len(runes) must be at least two.
func ApplyTypo(runes []rune, op TypoOp, rng *rand.Rand) string {
	n := len(runes)
	out := make([]rune, 0, n+1)

	switch op {
	case TypoSwap:
		i := rng.Intn(n - 1)
		out = append(out, runes...)
		out[i], out[i+1] = out[i+1], out[i]
	case TypoDelete:
		i := rng.Intn(n)
		out = append(out, runes[:i]...)
		out = append(out, runes[i+1:]...)
	case TypoInsert:
		i := rng.Intn(n + 1)
		out = append(out, runes[:i]...)
		out = append(out, randomLetter(rng))
		out = append(out, runes[i:]...)
	default:
		i := rng.Intn(n)
		out = append(out, runes...)
		replacement := randomLetter(rng)
		for replacement == out[i] {
			replacement = randomLetter(rng)
		}
		out[i] = replacement
	}
	return string(out)
}

// Whitespace applies a uniformly chosen whitespace perturbation
func Whitespace(s string, rng *rand.Rand) string {
	return ApplyWhitespace(s, WhitespaceOp(rng.Intn(4)), rng)
}

// ApplyWhitespace applies op to s. Doubling an internal space falls back
// to a trailing space when s has none.
func ApplyWhitespace(s string, op WhitespaceOp, rng *rand.Rand) string {
	switch op {
	case WhitespaceLeading:
		return " " + s
	case WhitespaceTrailing:
		return s + " "
	case WhitespaceDoubledInternal:
		var spaces []int
		for i, r := range s {
			if r == ' ' {
				spaces = append(spaces, i)
			}
		}
		if len(spaces) == 0 {
			return s + " "
		}
		at := spaces[rng.Intn(len(spaces))]
		return s[:at] + " " + s[at:]
	default:
		return " " + s + " "
	}
}

func randomLetter(rng *rand.Rand) rune {
	return rune(typoAlphabet[rng.Intn(len(typoAlphabet))])
}

package derive

import (
	"strings"

	"github.com/and161185/hashpass/internal/model"
)

// Character classes. Order inside each class is part of the derivation output; never change it.
const (
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	digitChars  = "0123456789"
	symbolChars = "!#$%&()*+,-./:;<=>?@[]^_{|}~"
)

// policy is the alphabet of a PasswordType plus the classes every output must contain,
// listed in repair priority order.
type policy struct {
	alphabet string
	required []string
}

var policies = map[model.PasswordType]policy{
	model.LettersDigitsSymbols: {
		alphabet: upperChars + lowerChars + digitChars + symbolChars,
		required: []string{digitChars, symbolChars, upperChars, lowerChars},
	},
	model.LettersDigits: {
		alphabet: upperChars + lowerChars + digitChars,
		required: []string{digitChars, upperChars, lowerChars},
	},
	model.Digits: {
		alphabet: digitChars,
		required: []string{digitChars},
	},
	model.Letters: {
		alphabet: upperChars + lowerChars,
		required: []string{upperChars, lowerChars},
	},
}

// Alphabet returns the ordered set of characters allowed for t, or "" for an unknown type.
func Alphabet(t model.PasswordType) string {
	return policies[t].alphabet
}

// RequiredClasses returns the character classes that must each appear at least once for t.
func RequiredClasses(t model.PasswordType) []string {
	req := policies[t].required
	out := make([]string, len(req))
	copy(out, req)
	return out
}

// cover overwrites positions of out until every required class is present.
// A position holding the only member of some class is never chosen, so each
// round strictly increases the number of covered classes.
func (p policy) cover(out []byte, s *stream) {
	for {
		missing := p.firstMissing(out)
		if missing == "" {
			return
		}
		c := missing[s.index(len(missing))]
		for {
			pos := s.index(len(out))
			if !p.soleMember(out, pos) {
				out[pos] = c
				break
			}
		}
	}
}

func (p policy) firstMissing(out []byte) string {
	for _, cls := range p.required {
		if count(out, cls) == 0 {
			return cls
		}
	}
	return ""
}

func (p policy) soleMember(out []byte, pos int) bool {
	for _, cls := range p.required {
		if strings.IndexByte(cls, out[pos]) >= 0 && count(out, cls) == 1 {
			return true
		}
	}
	return false
}

func count(out []byte, cls string) int {
	n := 0
	for _, b := range out {
		if strings.IndexByte(cls, b) >= 0 {
			n++
		}
	}
	return n
}

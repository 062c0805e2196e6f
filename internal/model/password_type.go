package model

import (
	"fmt"
	"strings"
)

// PasswordType is a character-class policy for derived passwords.
// Values are persisted as integers; never reorder them.
type PasswordType int

const (
	LettersDigitsSymbols PasswordType = iota
	LettersDigits
	Digits
	Letters
)

var passwordTypeNames = [...]string{
	LettersDigitsSymbols: "letters-digits-symbols",
	LettersDigits:        "letters-digits",
	Digits:               "digits",
	Letters:              "letters",
}

// PasswordTypes lists every recognized variant in ordinal order.
func PasswordTypes() []PasswordType {
	return []PasswordType{LettersDigitsSymbols, LettersDigits, Digits, Letters}
}

// Valid reports whether t is a recognized variant.
func (t PasswordType) Valid() bool {
	return t >= LettersDigitsSymbols && t <= Letters
}

func (t PasswordType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("PasswordType(%d)", int(t))
	}
	return passwordTypeNames[t]
}

// ParsePasswordType maps a variant name (case-insensitive) to its PasswordType.
func ParsePasswordType(s string) (PasswordType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range passwordTypeNames {
		if name == s {
			return PasswordType(i), true
		}
	}
	return 0, false
}

package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// SymbolMaxLength is the maximum number of characters in a symbol.
	SymbolMaxLength = 4

	// DefaultSymbol is what an unwritten tape cell reads as.
	DefaultSymbol = "-"

	// BlankLabel is shown in place of the empty (blank) symbol.
	BlankLabel = "_"
)

// ValidateSymbol checks the symbol length ceiling.
// The empty string is valid and denotes the default symbol.
func ValidateSymbol(s string) error {
	if n := utf8.RuneCountInString(s); n > SymbolMaxLength {
		return fmt.Errorf("%w: %q has %d characters (max %d)", ErrSymbolTooLong, s, n, SymbolMaxLength)
	}
	return nil
}

// SymbolLabel returns a printable label for s, using BlankLabel for the blank symbol.
func SymbolLabel(s string) string {
	if s == "" {
		return BlankLabel
	}
	return s
}

// ParseHeadMove parses a head displacement typed by a user.
// An empty string means 0 and a lone "-" means -1.
func ParseHeadMove(s string) (int, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0, nil
	case "-":
		return -1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidHeadMove, s, err)
	}
	return n, nil
}

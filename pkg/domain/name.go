package domain

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidName is returned for machine names that are not safe as store keys.
var ErrInvalidName = errors.New("invalid machine name")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// ValidateMachineName checks that name can be used as a file name and store key.
func ValidateMachineName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

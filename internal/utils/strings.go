package utils

import "regexp"

// getterNameRegex matches valid passphrase getter names: leading alphanumeric,
// then alphanumerics, dots, hyphens, or underscores.
var getterNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// IsValidGetterName checks if a passphrase getter name is valid.
func IsValidGetterName(name string) bool {
	if name == "" {
		return false
	}
	return getterNameRegex.MatchString(name)
}

package domain

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	phonePattern  = regexp.MustCompile(`^\d{10}$`)
)

// Company is derived from the users that carry its name.
type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// CompanySlug lowercases name and replaces whitespace runs with "-".
func CompanySlug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

// ValidPhone reports whether phone is exactly ten digits.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

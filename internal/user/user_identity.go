package user

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go-thread/internal/domain"
)

// SplitName returns the first word and the rest of name. An empty rest
// becomes "User".
func SplitName(name string) (first, last string) {
	words := strings.Fields(name)
	if len(words) == 0 {
		return "", "User"
	}
	first = words[0]
	last = strings.Join(words[1:], " ")
	if last == "" {
		last = "User"
	}
	return first, last
}

func companyInitials(companyName string) string {
	var b strings.Builder
	for _, w := range strings.Fields(companyName) {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(r)
	}
	return prefix(strings.ToUpper(b.String()), 2)
}

func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}

// NextEmployeeID builds initials(company) + first two letters of each name +
// year + a four digit serial. The serial counts colleagues who joined the
// same year and is bumped past ids already taken in the company.
func NextEmployeeID(companyName, firstName, lastName string, year int, colleagues []domain.User) string {
	taken := make(map[string]bool, len(colleagues))
	serial := 1
	for _, u := range colleagues {
		taken[u.EmployeeID] = true
		if u.JoiningYear == year {
			serial++
		}
	}

	base := companyInitials(companyName) +
		strings.ToUpper(prefix(firstName, 2)) +
		strings.ToUpper(prefix(lastName, 2)) +
		fmt.Sprint(year)
	for {
		id := fmt.Sprintf("%s%04d", base, serial)
		if !taken[id] {
			return id
		}
		serial++
	}
}

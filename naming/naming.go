// Package naming converts schema identifiers between the wire (kebab-case)
// form and the forms used in generated Go code.
//
// All conversions are pure and idempotent. Reserved identifiers are remapped
// only when deriving package, file and type names; wire field names are never
// touched.
package naming

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// isSeparator reports whether r separates words in an identifier.
func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == '/' || r == ' '
}

// ToSnake converts s to snake_case.
// Separators become underscores and case changes start a new word.
// Example: "ssl-ssh-profile" -> "ssl_ssh_profile"
// Example: "HTTPServer" -> "http_server"
func ToSnake(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		switch {
		case isSeparator(r):
			b.WriteRune('_')
		case unicode.IsUpper(r):
			if i > 0 && wordBoundary(runes, i) {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// wordBoundary reports whether the upper-case rune at i starts a new word.
func wordBoundary(runes []rune, i int) bool {
	prev := runes[i-1]
	if isSeparator(prev) {
		return false
	}
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	// End of an acronym: "HTTPServer" splits before the "S".
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

// ToKebab converts s to kebab-case.
// Example: "ssl_ssh_profile" -> "ssl-ssh-profile"
func ToKebab(s string) string {
	return strings.ReplaceAll(ToSnake(s), "_", "-")
}

// ToPascal converts s to PascalCase. Each word keeps its first letter upper
// and the rest lower, so already converted input is returned unchanged.
// Example: "ssl-ssh-profile" -> "SslSshProfile"
// Example: "nat64" -> "Nat64"
func ToPascal(s string) string {
	var b strings.Builder
	for _, w := range words(s) {
		runes := []rune(w)
		b.WriteRune(unicode.ToUpper(runes[0]))
		for _, r := range runes[1:] {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// ToConstant converts s to CONSTANT_CASE. Characters that are neither letters
// nor digits are replaced with underscores.
// Example: "ssl-ssh-profile" -> "SSL_SSH_PROFILE"
func ToConstant(s string) string {
	snake := s
	if strings.IndexFunc(s, unicode.IsLower) >= 0 {
		snake = ToSnake(s)
	}
	var b strings.Builder
	b.Grow(len(snake))
	for _, r := range snake {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Sanitize replaces every character that is not a letter, digit or separator
// with a hyphen, so the result can be fed to the case converters.
// Example: "tcp/udp:sctp" -> "tcp/udp-sctp"
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || isSeparator(r) {
			return r
		}
		return '-'
	}, s)
}

// words splits s at separators and case changes.
func words(s string) []string {
	return strings.FieldsFunc(ToSnake(Sanitize(s)), func(r rune) bool { return r == '_' })
}

// Title returns a human-readable title for a path or identifier, for use in
// generated documentation.
// Example: "firewall.service/custom" -> "Firewall Service Custom"
func Title(s string) string {
	return cases.Title(language.English).String(strings.Join(words(s), " "))
}

// Plural returns the plural form of the last word of s, for use in
// generated documentation.
// Example: "local-in-policy" -> "local-in-policies"
func Plural(s string) string {
	i := strings.LastIndexAny(s, "-_./ ")
	return s[:i+1] + inflect.Pluralize(s[i+1:])
}

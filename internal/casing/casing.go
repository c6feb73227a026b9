package casing

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
)

// Style is an identifier casing convention.
type Style int

const (
	Snake  Style = iota + 1 // user_name
	Kebab                   // user-name
	Camel                   // userName
	Pascal                  // UserName
)

var styleNames = map[Style]string{
	Snake:  "snake",
	Kebab:  "kebab",
	Camel:  "camel",
	Pascal: "pascal",
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseStyle maps a style name ("snake", "kebab", "camel", "pascal") to a Style.
func ParseStyle(name string) (Style, error) {
	for style, n := range styleNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return style, nil
		}
	}
	return 0, fmt.Errorf("unknown case style %q (want snake, kebab, camel or pascal)", name)
}

// Convert re-cases s from one style to another.
//
// Runs of ASCII identifier characters ([A-Za-z0-9_-]) are converted; every
// other character is copied through unchanged, so Convert never fails.
// Delimiters leading or trailing a run are kept as written. Converting the
// output again with the same styles returns it unchanged, and converting
// between identical styles returns s as is.
// Example: Convert("UserName", Pascal, Kebab) -> "user-name"
func Convert(s string, from, to Style) string {
	if from == to || s == "" {
		return s
	}

	var sb strings.Builder
	start := -1
	continued := false // the run follows a non-ASCII letter or digit
	for i, r := range s {
		if isIdentRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			sb.WriteString(convertRun(s[start:i], to, continued))
			start = -1
		}
		continued = unicode.IsLetter(r) || unicode.IsDigit(r)
		sb.WriteRune(r)
	}
	if start >= 0 {
		sb.WriteString(convertRun(s[start:], to, continued))
	}
	return sb.String()
}

// ToKebabCase converts a Go field name to kebab-case.
// Example: "UserName" -> "user-name", "MinLength" -> "min-length"
func ToKebabCase(s string) string {
	return Convert(s, Pascal, Kebab)
}

func convertRun(run string, to Style, continued bool) string {
	core := strings.TrimLeft(run, "_-")
	lead := run[:len(run)-len(core)]
	core = strings.TrimRight(core, "_-")
	trail := run[len(lead)+len(core):]
	if core == "" {
		return run
	}
	if lead != "" {
		continued = false
	}

	switch to {
	case Snake:
		return lead + strcase.ToSnake(core) + trail
	case Kebab:
		return lead + strcase.ToKebab(core) + trail
	case Camel, Pascal:
		// Assembled from words rather than strcase.ToCamel, which folds
		// acronyms ("XY" -> "Xy") and so is not stable when re-applied.
		var sb strings.Builder
		sb.WriteString(lead)
		for i, w := range splitWords(core) {
			switch {
			case i == 0 && continued:
				sb.WriteString(w)
			case i == 0 && to == Camel:
				sb.WriteString(strings.ToLower(w))
			default:
				sb.WriteString(strings.ToUpper(w[:1]) + w[1:])
			}
		}
		sb.WriteString(trail)
		return sb.String()
	default:
		return run
	}
}

// splitWords splits an ASCII identifier at delimiters, at lower-or-digit to
// upper transitions and before the last capital of an acronym
// ("HTTPRequest" -> "HTTP", "Request").
func splitWords(s string) []string {
	var words []string
	begin := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || c == '-' {
			if begin >= 0 {
				words = append(words, s[begin:i])
				begin = -1
			}
			continue
		}
		if begin >= 0 && isUpper(c) {
			prev := s[i-1]
			if isLower(prev) || isDigit(prev) || (isUpper(prev) && i+1 < len(s) && isLower(s[i+1])) {
				words = append(words, s[begin:i])
				begin = i
			}
		}
		if begin < 0 {
			begin = i
		}
	}
	if begin >= 0 {
		words = append(words, s[begin:])
	}
	return words
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '-' || r < 0x80 && (isUpper(byte(r)) || isLower(byte(r)) || isDigit(byte(r)))
}

func isUpper(c byte) bool { return 'A' <= c && c <= 'Z' }
func isLower(c byte) bool { return 'a' <= c && c <= 'z' }
func isDigit(c byte) bool { return '0' <= c && c <= '9' }

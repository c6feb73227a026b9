package buildgen

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
)

// Tokens is the ordered argument list produced by a generated builder's
// Finalize method. It does not include the program name.
type Tokens []string

// String renders the tokens as a single shell-quoted command line.
func (t Tokens) String() string {
	return shellquote.Join(t...)
}

// ParseTokens splits a shell-quoted command line back into tokens.
func ParseTokens(cmdline string) (Tokens, error) {
	words, err := shellquote.Split(cmdline)
	if err != nil {
		return nil, errors.Wrapf(err, "split command line %q", cmdline)
	}
	return Tokens(words), nil
}

// FormatArg returns the textual form of a field value as it appears on a
// command line.
func FormatArg(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

// IsZero reports whether v is the zero value of its type.
func IsZero(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}

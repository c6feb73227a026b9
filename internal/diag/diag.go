// Package diag holds the located, kinded failure reports produced while
// parsing annotated definitions. A Diagnostic is the only channel through
// which the analyzers report a rejected definition.
package diag

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind classifies a diagnostic.
type Kind int

const (
	// Structural: an annotation sits on an unsupported declaration shape.
	Structural Kind = iota + 1
	// AnnotationSyntax: a malformed or missing annotation value.
	AnnotationSyntax
	AmbiguousRoot
	DuplicateSegment
	InvalidCategory
	ConflictingFlagName
	InvalidDefault
	DuplicateOrder
)

// Sentinels, one per Kind, for errors.Is checks.
var (
	ErrStructural          = errors.New("structural error")
	ErrAnnotationSyntax    = errors.New("annotation syntax error")
	ErrAmbiguousRoot       = errors.New("ambiguous root")
	ErrDuplicateSegment    = errors.New("duplicate segment")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrConflictingFlagName = errors.New("conflicting flag name")
	ErrInvalidDefault      = errors.New("invalid default")
	ErrDuplicateOrder      = errors.New("duplicate order index")
)

var kindInfo = map[Kind]struct {
	name     string
	sentinel error
}{
	Structural:          {"Structural", ErrStructural},
	AnnotationSyntax:    {"AnnotationSyntax", ErrAnnotationSyntax},
	AmbiguousRoot:       {"AmbiguousRoot", ErrAmbiguousRoot},
	DuplicateSegment:    {"DuplicateSegment", ErrDuplicateSegment},
	InvalidCategory:     {"InvalidCategory", ErrInvalidCategory},
	ConflictingFlagName: {"ConflictingFlagName", ErrConflictingFlagName},
	InvalidDefault:      {"InvalidDefault", ErrInvalidDefault},
	DuplicateOrder:      {"DuplicateOrder", ErrDuplicateOrder},
}

func (k Kind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinel returns the sentinel error matching k.
func (k Kind) Sentinel() error {
	if info, ok := kindInfo[k]; ok {
		return info.sentinel
	}
	return nil
}

// Diagnostic is a located failure report for one definition.
type Diagnostic struct {
	Kind       Kind
	Message    string
	Definition string         // name of the annotated definition
	Field      string         // offending field, empty when the definition itself is at fault
	Pos        token.Position // may be invalid for sources without positions (e.g. TOML layouts)
	Hint       string
}

// New creates a diagnostic.
func New(kind Kind, pos token.Position, definition, field, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
		Definition: definition,
		Field:      field,
		Pos:        pos,
	}
}

// WithHint attaches a suggestion for fixing the problem.
func (d *Diagnostic) WithHint(format string, args ...any) *Diagnostic {
	d.Hint = fmt.Sprintf(format, args...)
	return d
}

// Location renders where the diagnostic points: a source position when
// available, otherwise definition[.field].
func (d *Diagnostic) Location() string {
	if d.Pos.IsValid() {
		return d.Pos.String()
	}
	if d.Field != "" {
		return d.Definition + "." + d.Field
	}
	return d.Definition
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Location(), d.Kind, d.Message)
}

// Unwrap exposes the kind's sentinel so that errors.Is(d, diag.ErrAmbiguousRoot) works.
func (d *Diagnostic) Unwrap() error {
	return d.Kind.Sentinel()
}

// List collects diagnostics of one generation pass.
type List []*Diagnostic

// Add appends d if it is not nil.
func (l *List) Add(d *Diagnostic) {
	if d != nil {
		*l = append(*l, d)
	}
}

// Err folds the list into a single error, or nil when empty. Each
// diagnostic's hint is carried through errors.WithHint.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	var err error = l[0]
	if l[0].Hint != "" {
		err = errors.WithHint(err, l[0].Hint)
	}
	for _, d := range l[1:] {
		var next error = d
		if d.Hint != "" {
			next = errors.WithHint(next, d.Hint)
		}
		err = errors.CombineErrors(err, next)
	}
	if len(l) == 1 {
		return err
	}
	return errors.WithMessagef(err, "%d definitions rejected", len(l))
}

func (l List) String() string {
	lines := make([]string, len(l))
	for i, d := range l {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}

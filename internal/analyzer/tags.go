package analyzer

import (
	"go/ast"
	"go/token"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// fieldTag is one parsed struct tag value, e.g. `arg:"flag,name=--out,order=1"`.
// The first comma-separated item is the kind, the rest are key=value options.
type fieldTag struct {
	Raw  string
	Kind string
	Opts map[string]string
	Keys []string
	Pos  token.Pos
}

// Skip reports whether the tag excludes the field (`seg:"-"`, `arg:"-"`).
func (t *fieldTag) Skip() bool { return t != nil && t.Raw == "-" }

// Option returns the value of an option and whether it was given.
func (t *fieldTag) Option(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.Opts[key]
	return v, ok
}

// lookupTag parses the value of key in the field's struct tag. It returns
// (nil, nil) when the field has no such tag.
func lookupTag(field *ast.Field, key string) (*fieldTag, error) {
	if field.Tag == nil {
		return nil, nil
	}
	raw, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed struct tag %s", field.Tag.Value)
	}
	value, ok := reflect.StructTag(raw).Lookup(key)
	if !ok {
		return nil, nil
	}
	t := &fieldTag{Raw: value, Opts: map[string]string{}, Pos: field.Tag.Pos()}
	if value == "-" {
		return t, nil
	}
	items := strings.Split(value, ",")
	t.Kind = strings.TrimSpace(items[0])
	for _, item := range items[1:] {
		k, v, hasEq := strings.Cut(item, "=")
		k = strings.TrimSpace(k)
		if k == "" {
			return nil, errors.Newf("%s tag %q has an empty option", key, value)
		}
		if !hasEq {
			return nil, errors.Newf("%s tag %q: option %q needs a value (%s=...)", key, value, k, k)
		}
		if _, dup := t.Opts[k]; dup {
			return nil, errors.Newf("%s tag %q: option %q given twice", key, value, k)
		}
		t.Opts[k] = v
		t.Keys = append(t.Keys, k)
	}
	return t, nil
}

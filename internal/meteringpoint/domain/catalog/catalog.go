// Package catalog defines the closed value sets of the metering point registry.
//
// Each catalog is a tagged enumeration: an int type whose zero value means
// "not set", plus a read-only attribute table holding the canonical name and
// the market document code of every member. Tables are initialised once at
// package load and never mutated.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownValue is returned when a name or code is not part of a catalog.
var ErrUnknownValue = errors.New("unknown catalog value")

type entry[T ~int] struct {
	value T
	name  string
	code  string
}

type table[T ~int] struct {
	kind    string
	entries []entry[T]
	byValue map[T]entry[T]
	byKey   map[string]T
}

func newTable[T ~int](kind string, entries ...entry[T]) *table[T] {
	t := &table[T]{
		kind:    kind,
		entries: entries,
		byValue: make(map[T]entry[T], len(entries)),
		byKey:   make(map[string]T, 2*len(entries)),
	}
	for _, e := range entries {
		if e.value == 0 {
			panic(fmt.Sprintf("catalog %s: zero value is reserved for unset", kind))
		}
		if _, dup := t.byValue[e.value]; dup {
			panic(fmt.Sprintf("catalog %s: duplicate value %d", kind, e.value))
		}
		t.byValue[e.value] = e
		t.byKey[strings.ToLower(e.name)] = e.value
		if e.code != "" {
			t.byKey[strings.ToLower(e.code)] = e.value
		}
	}
	return t
}

func (t *table[T]) name(v T) string {
	if e, ok := t.byValue[v]; ok {
		return e.name
	}
	return ""
}

func (t *table[T]) code(v T) string {
	if e, ok := t.byValue[v]; ok {
		return e.code
	}
	return ""
}

func (t *table[T]) valid(v T) bool {
	_, ok := t.byValue[v]
	return ok
}

// parse resolves a name or market code, case-insensitively.
func (t *table[T]) parse(s string) (T, error) {
	if v, ok := t.byKey[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %s %q", ErrUnknownValue, t.kind, s)
}

func (t *table[T]) fromValue(n int) (T, error) {
	v := T(n)
	if !t.valid(v) {
		return 0, fmt.Errorf("%w: %s %d", ErrUnknownValue, t.kind, n)
	}
	return v, nil
}

func (t *table[T]) all() []T {
	out := make([]T, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.value
	}
	return out
}

func (t *table[T]) unmarshal(dst *T, text []byte) error {
	if len(text) == 0 {
		*dst = 0
		return nil
	}
	v, err := t.parse(string(text))
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

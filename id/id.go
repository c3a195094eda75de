// Package id defines the TypeID-based identifiers used across Strand.
//
// An ID is a prefix-qualified TypeID in the "prefix_suffix" wire format.
// The suffix encodes a UUIDv7, so IDs generated over time sort
// lexicographically in roughly creation order and are safe to use in
// URLs, log lines, and text-encoded payloads.
package id

import (
	"errors"
	"fmt"
	"log/slog"

	"go.jetify.com/typeid/v2"
)

// Prefix names the entity type encoded in an ID.
type Prefix string

const (
	// PrefixContext tags execution context IDs ("ctx_...").
	PrefixContext Prefix = "ctx"
	// PrefixCore tags reactor core IDs ("core_...").
	PrefixCore Prefix = "core"
)

// ContextID identifies one execution context.
type ContextID = ID

// CoreID identifies one reactor core.
type CoreID = ID

// ID is a prefix-qualified, K-sortable, globally unique identifier.
// The zero value is Nil; it renders as the empty string.
//
//nolint:recvcheck // UnmarshalText needs a pointer receiver, everything else reads.
type ID struct {
	tid typeid.TypeID
	set bool
}

// Nil is the zero ID.
var Nil ID

// String renders the ID in "prefix_suffix" form, or "" for Nil.
func (i ID) String() string {
	if !i.set {
		return ""
	}
	return i.tid.String()
}

// Prefix returns the ID's type prefix, or "" for Nil.
func (i ID) Prefix() Prefix {
	if !i.set {
		return ""
	}
	return Prefix(i.tid.Prefix())
}

// IsNil reports whether the ID is the zero value.
func (i ID) IsNil() bool { return !i.set }

// LogValue implements slog.LogValuer; an ID logs as its string form.
func (i ID) LogValue() slog.Value { return slog.StringValue(i.String()) }

// MarshalText implements encoding.TextMarshaler. Nil marshals to the
// empty string.
func (i ID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input
// restores Nil, mirroring MarshalText.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil
		return nil
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// ──────────────────────────────────────────────────
// Constructors and parsers
// ──────────────────────────────────────────────────

// New generates a fresh ID under prefix. Panics if prefix is not a
// valid TypeID prefix, which is a programming error.
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}
	return ID{tid: tid, set: true}
}

// NewContextID generates a fresh execution context ID.
func NewContextID() ContextID { return New(PrefixContext) }

// NewCoreID generates a fresh reactor core ID.
func NewCoreID() CoreID { return New(PrefixCore) }

// Parse parses an ID from its "prefix_suffix" string form. The empty
// string is rejected; use Nil for the absent ID.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, errors.New("id: parse: empty string")
	}
	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}
	return ID{tid: tid, set: true}, nil
}

// ParseWithPrefix parses an ID and rejects it unless its prefix matches
// want.
func ParseWithPrefix(s string, want Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}
	if got := parsed.Prefix(); got != want {
		return Nil, fmt.Errorf("id: prefix %q, want %q", got, want)
	}
	return parsed, nil
}

// ParseContextID parses an ID and validates the "ctx" prefix.
func ParseContextID(s string) (ContextID, error) { return ParseWithPrefix(s, PrefixContext) }

// ParseCoreID parses an ID and validates the "core" prefix.
func ParseCoreID(s string) (CoreID, error) { return ParseWithPrefix(s, PrefixCore) }

// MustParse is Parse for hardcoded values; it panics on error.
func MustParse(s string) ID {
	parsed, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("id: must parse %q: %v", s, err))
	}
	return parsed
}

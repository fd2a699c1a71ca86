// SPDX-License-Identifier: MPL-2.0

// Package flakeref models indirect flake references: names resolved through
// the flake registry, written as "flake:<id>" (the scheme may carry query
// attributes such as a ref or rev) or exchanged with nix as JSON attribute
// sets of the form {"type":"indirect","id":...}.
package flakeref

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// Scheme is the URL scheme of an indirect flake reference.
const Scheme = "flake"

// refType is the tag nix uses for indirect references in attribute-set form.
const refType = "indirect"

// ErrMissingID is returned when an attribute set lacks the registry entry
// name.
var ErrMissingID = errors.New("flakeref: missing \"id\" attribute")

type (
	// IndirectRef names a flake registry entry, optionally constrained by
	// attributes (ref, rev, dir, ...) given as part of the reference.
	IndirectRef struct {
		// ID is the registry entry name, the part immediately after
		// "flake:".
		ID string

		// Attributes holds the revision, git ref, etc. specified with the
		// reference. Rendering is deterministic: keys are sorted.
		Attributes map[string]string
	}

	// InvalidSchemeError reports a reference whose scheme is not "flake:".
	InvalidSchemeError struct {
		Found string
	}
)

func (e *InvalidSchemeError) Error() string {
	return fmt.Sprintf("flakeref: invalid scheme (expected %q, found %q)", Scheme+":", e.Found+":")
}

// New constructs an IndirectRef for a registry entry.
func New(id string, attributes map[string]string) IndirectRef {
	attrs := make(map[string]string, len(attributes))
	for k, v := range attributes {
		attrs[k] = v
	}
	return IndirectRef{ID: id, Attributes: attrs}
}

// Parse parses an indirect reference of the form "flake:<id>[?attrs]".
// References with any other scheme are rejected with InvalidSchemeError.
func Parse(s string) (IndirectRef, error) {
	u, err := url.Parse(s)
	if err != nil {
		return IndirectRef{}, fmt.Errorf("flakeref: %w", err)
	}
	if u.Scheme != Scheme {
		return IndirectRef{}, &InvalidSchemeError{Found: u.Scheme}
	}

	id := u.Opaque
	if id == "" {
		id = u.Path
	}

	query, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return IndirectRef{}, fmt.Errorf("flakeref: couldn't parse query: %w", err)
	}
	attrs := make(map[string]string, len(query))
	for k, vs := range query {
		if len(vs) > 0 {
			attrs[k] = vs[len(vs)-1]
		}
	}

	return IndirectRef{ID: id, Attributes: attrs}, nil
}

// String renders the reference in URL form, attributes sorted by key so the
// output is stable.
func (r IndirectRef) String() string {
	s := Scheme + ":" + r.ID
	if len(r.Attributes) == 0 {
		return s
	}

	vals := make(url.Values, len(r.Attributes))
	for k, v := range r.Attributes {
		vals.Set(k, v)
	}
	return s + "?" + vals.Encode()
}

// MarshalJSON renders the nix attribute-set form, flattening Attributes
// beside "type" and "id".
func (r IndirectRef) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(r.Attributes)+2)
	for k, v := range r.Attributes {
		m[k] = v
	}
	m["type"] = refType
	m["id"] = r.ID
	return json.Marshal(m)
}

// UnmarshalJSON accepts the nix attribute-set form. Non-string attribute
// values are rendered to their literal JSON text, matching how nix prints
// them.
func (r *IndirectRef) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("flakeref: %w", err)
	}

	if typ, _ := m["type"].(string); typ != refType {
		return fmt.Errorf("flakeref: attribute set is not an indirect reference (type %v)", m["type"])
	}
	id, ok := m["id"].(string)
	if !ok {
		return ErrMissingID
	}

	attrs := make(map[string]string, len(m))
	for k, v := range m {
		if k == "type" || k == "id" {
			continue
		}
		attrs[k] = stringifyAttr(v)
	}

	r.ID = id
	r.Attributes = attrs
	return nil
}

// AttributeNames returns the attribute keys in sorted order.
func (r IndirectRef) AttributeNames() []string {
	names := make([]string, 0, len(r.Attributes))
	for k := range r.Attributes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func stringifyAttr(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	}
}

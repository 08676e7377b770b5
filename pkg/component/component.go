// Package component extracts property schemas from React component sources
// and turns them into Figma component and component-set specifications.
//
// Extraction is a heuristic text scanner, not a TypeScript parser: it finds
// the first *Props interface or type literal, reads its members and the
// defaults of the component's destructured parameters.
package component

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Kind is the Figma property type a prop maps to.
type Kind string

// Property kinds.
const (
	KindText         Kind = "TEXT"
	KindBoolean      Kind = "BOOLEAN"
	KindInstanceSwap Kind = "INSTANCE_SWAP"
	KindVariant      Kind = "VARIANT"
)

var (
	// ErrUnterminatedBlock is returned when a props block never closes.
	ErrUnterminatedBlock = errors.New("unterminated block")
	// ErrNoComponents is returned when a component set is built from nothing.
	ErrNoComponents = errors.New("no components")
)

// InvariantError reports a variant or default for a prop the record does not declare.
type InvariantError struct {
	Component string
	Field     string // "variants" or "defaults"
	Prop      string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("component %s: %s entry %q has no matching prop", e.Component, e.Field, e.Prop)
}

// PropInfo describes one declared prop.
type PropInfo struct {
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Kind     Kind   `json:"figmaType"`
}

// Default is a prop default value as written in source, quotes removed.
type Default struct {
	Name  string
	Value string
}

// Defaults keeps prop defaults in source order. It encodes as a JSON object.
type Defaults []Default

// Get returns the default of prop name.
func (d Defaults) Get(name string) (string, bool) {
	for _, def := range d {
		if def.Name == name {
			return def.Value, true
		}
	}
	return "", false
}

// MarshalJSON writes the defaults as an object in source order.
func (d Defaults) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, def := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(def.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(def.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping key order. Non-string values are
// stored in their JSON text form.
func (d *Defaults) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*d = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("defaults: expected object")
	}

	var out Defaults
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}

		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			s = string(bytes.TrimSpace(raw))
		}
		out = append(out, Default{Name: key, Value: s})
	}

	*d = out
	return nil
}

// Record is the schema extracted from one component source file.
type Record struct {
	Name       string              `json:"name"`
	Type       string              `json:"type"`
	Props      map[string]PropInfo `json:"props"`
	Variants   map[string][]string `json:"variants"`
	Defaults   Defaults            `json:"defaults"`
	SourcePath string              `json:"file_path,omitempty"`
}

// Validate checks that every variant and default refers to a declared prop.
// Extracted records always pass; records decoded from JSON may not.
func (r *Record) Validate() error {
	for _, name := range sortedKeys(r.Variants) {
		if _, ok := r.Props[name]; !ok {
			return &InvariantError{Component: r.Name, Field: "variants", Prop: name}
		}
	}
	for _, def := range r.Defaults {
		if _, ok := r.Props[def.Name]; !ok {
			return &InvariantError{Component: r.Name, Field: "defaults", Prop: def.Name}
		}
	}
	return nil
}

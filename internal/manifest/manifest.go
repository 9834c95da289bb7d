// Package manifest patches a frontend package manifest (package.json) in place.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/joshua-mo-143/milkmilk/internal/materialize"
)

const (
	// BuildScript builds the frontend into the backend static dir and then builds the backend.
	BuildScript = "next build -o ./backend/static && cargo-build --manifest-path ./backend/Cargo.toml"
	// DevScript runs the frontend dev server and the backend side by side.
	DevScript = `npm run build && concurrently --names "next, cargo" "next dev" "cargo run --manifest-path ./backend/Cargo.toml"`
)

// Scripts returns the fixed script entries inserted by AddScripts, in insertion order.
func Scripts() [][2]string {
	return [][2]string{
		{"build", BuildScript},
		{"dev", DevScript},
	}
}

// ParseError reports a manifest that is not well-formed or lacks a required field.
type ParseError struct {
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("parse manifest: %s", e.Reason)
	}
	return fmt.Sprintf("parse manifest: field %q %s", e.Field, e.Reason)
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindBool
	kindObject
)

// requiredFields lists the fields a manifest must carry, with their expected kinds.
var requiredFields = []struct {
	name string
	kind fieldKind
}{
	{"name", kindString},
	{"version", kindString},
	{"private", kindBool},
	{"scripts", kindObject},
	{"dependencies", kindObject},
	{"devDependencies", kindObject},
}

// Patch adds the build and dev scripts to the manifest at path and rewrites it pretty-printed.
func Patch(fsys billy.Filesystem, path string) error {
	return materialize.New(fsys).Transform(path, AddScripts)
}

// AddScripts validates data and returns it with the fixed script entries inserted
// or overwritten. Every other field keeps its value and position.
func AddScripts(data []byte) ([]byte, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	out := data
	for _, kv := range Scripts() {
		raw, err := encodeString(kv[1])
		if err != nil {
			return nil, err
		}
		out, err = sjson.SetRawBytes(out, "scripts."+escapeKey(kv[0]), raw)
		if err != nil {
			return nil, fmt.Errorf("set script %q: %w", kv[0], err)
		}
	}

	return pretty.Pretty(out), nil
}

// Validate checks that data is a JSON object carrying every required field with the right type.
func Validate(data []byte) error {
	if !gjson.ValidBytes(data) {
		return &ParseError{Reason: "invalid JSON"}
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return &ParseError{Reason: "top-level value is not an object"}
	}

	for _, f := range requiredFields {
		v := doc.Get(escapeKey(f.name))
		if !v.Exists() {
			return &ParseError{Field: f.name, Reason: "is missing"}
		}
		var ok bool
		switch f.kind {
		case kindString:
			ok = v.Type == gjson.String
		case kindBool:
			ok = v.Type == gjson.True || v.Type == gjson.False
		case kindObject:
			ok = v.IsObject()
		}
		if !ok {
			return &ParseError{Field: f.name, Reason: "has the wrong type"}
		}
		if f.kind == kindObject {
			if err := requireStringValues(f.name, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// requireStringValues checks that every entry of the object v is a string.
func requireStringValues(field string, v gjson.Result) error {
	var (
		bad   string
		found bool
	)
	v.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			bad, found = key.String(), true
			return false
		}
		return true
	})
	if found {
		return &ParseError{Field: field + "." + bad, Reason: "has the wrong type"}
	}
	return nil
}

// encodeString renders s as a JSON string without HTML escaping, so "&&" stays readable.
func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode script: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// escapeKey escapes gjson/sjson path metacharacters in a single key.
func escapeKey(key string) string {
	var b bytes.Buffer
	for _, r := range key {
		switch r {
		case '.', '*', '?':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

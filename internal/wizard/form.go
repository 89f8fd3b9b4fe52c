package wizard

import (
	"fmt"
	"time"
)

// Kind is the type of value a field holds.
type Kind string

const (
	KindText   Kind = "text"
	KindChoice Kind = "choice"
	KindDate   Kind = "date"
	KindFile   Kind = "file"
)

// DateLayout is the wire format of date values.
const DateLayout = "2006-01-02"

// FileHandle is an opaque reference to a chosen document. The bytes are not
// kept anywhere.
type FileHandle struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
}

// Value is one leaf of a FormState. Text carries text, the chosen option or
// the date in DateLayout; File carries the document handle.
type Value struct {
	Kind Kind        `json:"kind"`
	Text string      `json:"text,omitempty"`
	File *FileHandle `json:"file,omitempty"`
}

func Text(s string) Value   { return Value{Kind: KindText, Text: s} }
func Choice(s string) Value { return Value{Kind: KindChoice, Text: s} }

// Date returns a date value; the zero time means "unset".
func Date(t time.Time) Value {
	if t.IsZero() {
		return Value{Kind: KindDate}
	}
	return Value{Kind: KindDate, Text: t.Format(DateLayout)}
}

// ParseDate parses a DateLayout string into a date value. An empty string is
// the unset date.
func ParseDate(s string) (Value, error) {
	if s == "" {
		return Value{Kind: KindDate}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Value{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date(t), nil
}

// File returns a file value; nil means "no file chosen".
func File(h *FileHandle) Value {
	if h == nil {
		return Value{Kind: KindFile}
	}
	cp := *h
	return Value{Kind: KindFile, File: &cp}
}

// IsZero reports whether the value is empty/unset.
func (v Value) IsZero() bool {
	return v.Text == "" && v.File == nil
}

// Time returns the date of a date value.
func (v Value) Time() (time.Time, bool) {
	if v.Kind != KindDate || v.Text == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, v.Text)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Field declares a field's kind and, for choices, its options. Secret values
// are never echoed back to clients.
type Field struct {
	Name     string
	Kind     Kind
	Label    string
	Options  []string
	Optional bool
	Secret   bool
}

// Section is an ordered group of fields.
type Section struct {
	Name   string
	Fields []Field
}

// Schema declares every section and field of a wizard.
type Schema []Section

// Field looks up a field declaration.
func (s Schema) Field(section, field string) (Field, bool) {
	for _, sec := range s {
		if sec.Name != section {
			continue
		}
		for _, f := range sec.Fields {
			if f.Name == field {
				return f, true
			}
		}
	}
	return Field{}, false
}

// Section looks up a section declaration.
func (s Schema) Section(name string) (Section, bool) {
	for _, sec := range s {
		if sec.Name == name {
			return sec, true
		}
	}
	return Section{}, false
}

// FormState maps section → field → value. It is treated as immutable: With
// returns a new state that copies the top-level map and the touched section
// and shares every other section.
type FormState map[string]map[string]Value

// Get returns the value of a field, or the zero value when unset.
func (f FormState) Get(section, field string) Value {
	return f[section][field]
}

// With returns a copy of f with one leaf replaced.
func (f FormState) With(section, field string, v Value) FormState {
	out := make(FormState, len(f)+1)
	for name, sec := range f {
		out[name] = sec
	}
	touched := make(map[string]Value, len(f[section])+1)
	for name, val := range f[section] {
		touched[name] = val
	}
	touched[field] = v
	out[section] = touched
	return out
}

// Clone deep-copies the state, including file handles.
func (f FormState) Clone() FormState {
	out := make(FormState, len(f))
	for name, sec := range f {
		cp := make(map[string]Value, len(sec))
		for field, v := range sec {
			if v.File != nil {
				h := *v.File
				v.File = &h
			}
			cp[field] = v
		}
		out[name] = cp
	}
	return out
}

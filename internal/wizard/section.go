package wizard

import (
	"fmt"
	"strings"
)

// Field is one input of a section. Its validity is recomputed on every change;
// the error is only surfaced once the field has been touched.
type Field struct {
	spec    FieldSpec
	value   string
	touched bool
	result  Result
}

func newField(spec FieldSpec) *Field {
	f := &Field{spec: spec}
	f.result = spec.Validate("")
	return f
}

// Accessors for the field's definition and current state.
func (f *Field) Name() string    { return f.spec.Name }
func (f *Field) Label() string   { return f.spec.label() }
func (f *Field) Spec() FieldSpec { return f.spec }
func (f *Field) Value() string   { return f.value }
func (f *Field) Touched() bool   { return f.touched }
func (f *Field) Result() Result  { return f.result }
func (f *Field) Required() bool  { return f.spec.Required }
func (f *Field) IsValid() bool   { return f.result.Valid }

// Items splits a multi-select value into its options. Single-value fields
// return one item, or none when empty.
func (f *Field) Items() []string { return SplitList(f.value) }

// VisibleError is the reason to show under the field. It stays empty until
// the field has been touched, even when the value is invalid.
func (f *Field) VisibleError() string {
	if !f.touched || f.result.Valid {
		return ""
	}
	return f.result.Reason
}

// set stores value, marks the field touched and revalidates. It reports
// whether the stored value actually changed.
func (f *Field) set(value string) bool {
	changed := f.value != value
	f.value = value
	f.touched = true
	f.result = f.spec.Validate(value)
	return changed
}

// restore loads a persisted value without touching the field, so a
// prepopulated but invalid value does not flash an error before interaction.
func (f *Field) restore(value string) {
	f.value = value
	f.result = f.spec.Validate(value)
}

func (f *Field) touch() {
	f.touched = true
}

// SectionSpec declares a named group of fields.
type SectionSpec struct {
	ID     string
	Title  string
	Fields []FieldSpec
}

// Section is a group of fields with a completion predicate and a user-set
// confirmation flag. confirmed can only be true while the section is complete.
type Section struct {
	id        string
	title     string
	fields    []*Field
	byName    map[string]*Field
	confirmed bool
	reconfirm bool
}

func newSection(spec SectionSpec) (*Section, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("section id is required")
	}
	s := &Section{
		id:     spec.ID,
		title:  spec.Title,
		byName: make(map[string]*Field, len(spec.Fields)),
	}
	for _, fs := range spec.Fields {
		if fs.Name == "" {
			return nil, fmt.Errorf("section %q: field name is required", spec.ID)
		}
		if _, dup := s.byName[fs.Name]; dup {
			return nil, fmt.Errorf("section %q: duplicate field %q", spec.ID, fs.Name)
		}
		f := newField(fs)
		s.fields = append(s.fields, f)
		s.byName[fs.Name] = f
	}
	return s, nil
}

func (s *Section) ID() string { return s.id }

// Title falls back to the ID when no title was declared.
func (s *Section) Title() string {
	if s.title == "" {
		return s.id
	}
	return s.title
}

// Fields returns the section's fields in declaration order.
func (s *Section) Fields() []*Field {
	out := make([]*Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a field by name.
func (s *Section) Field(name string) (*Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// IsComplete reports whether every required field is valid.
func (s *Section) IsComplete() bool {
	for _, f := range s.fields {
		if f.spec.Required && !f.result.Valid {
			return false
		}
	}
	return true
}

func (s *Section) Confirmed() bool { return s.confirmed }

// NeedsReconfirm is true after a confirmed section was edited and has not been
// confirmed again.
func (s *Section) NeedsReconfirm() bool { return s.reconfirm && !s.confirmed }

// InvalidFields lists the required fields that currently fail validation.
func (s *Section) InvalidFields() []string {
	var names []string
	for _, f := range s.fields {
		if f.spec.Required && !f.result.Valid {
			names = append(names, f.spec.Name)
		}
	}
	return names
}

// Values returns a copy of the raw field values keyed by field name.
func (s *Section) Values() map[string]string {
	out := make(map[string]string, len(s.fields))
	for _, f := range s.fields {
		out[f.spec.Name] = f.value
	}
	return out
}

func (s *Section) touchAll() {
	for _, f := range s.fields {
		f.touch()
	}
}

// unconfirm clears the flag and reports whether it was set.
func (s *Section) unconfirm() bool {
	if !s.confirmed {
		return false
	}
	s.confirmed = false
	s.reconfirm = true
	return true
}

// IsComplete is the package-level form of Section.IsComplete.
func IsComplete(s *Section) bool {
	return s != nil && s.IsComplete()
}

// ConfirmationError is returned by Confirm for an incomplete section.
type ConfirmationError struct {
	Section string
	Fields  []string
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("section %q is not complete: invalid fields %s", e.Section, strings.Join(e.Fields, ", "))
}

// Package model holds the per-field metadata produced by code generation
// and the process-wide model registry.
package model

import (
	"fmt"

	"github.com/structql/structql/value"
)

// Annotation is a single column constraint.
type Annotation string

const (
	AnnPrimaryKey     Annotation = "primary_key"
	AnnUnique         Annotation = "unique"
	AnnNotNull        Annotation = "not_null"
	AnnMaxLength      Annotation = "max_length"
	AnnDefault        Annotation = "default"
	AnnIndex          Annotation = "index"
	AnnAutoIncrement  Annotation = "auto_increment"
	AnnAutoCreateTime Annotation = "auto_create_time"
	AnnAutoUpdateTime Annotation = "auto_update_time"
	AnnForeignKey     Annotation = "foreign_key"
	AnnChoices        Annotation = "choices"
)

// RelationKind distinguishes which side of a relation a field sits on.
type RelationKind string

const (
	// ForeignModel marks a field holding the foreign key itself.
	ForeignModel RelationKind = "foreign_model"
	// BackRef marks the reverse direction of a ForeignModel field.
	BackRef RelationKind = "back_ref"
)

// Relation describes a relation field's target.
type Relation struct {
	Kind        RelationKind
	TargetModel string // table name of the related model
	TargetField string // field name on the related model
}

// Decoder reads a field's physical columns back into its value type.
// src has exactly one entry per column, in column order.
type Decoder func(src []any) (any, error)

// Field is the compile-time-fixed descriptor of one model field.
type Field struct {
	Model string // owning table name
	Name  string // stable field name
	Index int    // position within the model

	Kind    value.Kind
	Columns []string
	// EffectiveAnnotations holds one annotation set per physical column.
	EffectiveAnnotations [][]Annotation
	Decode               Decoder

	// Relation is non-nil for ForeignModel and BackRef fields.
	Relation *Relation
}

// Column returns the field's single column name.
// It panics for multi-column fields; relation fields are always single-column.
func (f *Field) Column() string {
	if len(f.Columns) != 1 {
		panic(fmt.Sprintf("model: field %s.%s spans %d columns, expected 1", f.Model, f.Name, len(f.Columns)))
	}
	return f.Columns[0]
}

// HasAnnotation reports whether any column of the field carries ann.
func (f *Field) HasAnnotation(ann Annotation) bool {
	for _, set := range f.EffectiveAnnotations {
		for _, a := range set {
			if a == ann {
				return true
			}
		}
	}
	return false
}

// Meta is the per-model descriptor bundle.
type Meta struct {
	Table      string
	Fields     []*Field
	PrimaryKey *Field
}

// Field looks a field up by its stable name.
func (m *Meta) Field(name string) (*Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// validate checks the descriptor invariants fixed by the code generator.
func (m *Meta) validate() error {
	if m.Table == "" {
		return fmt.Errorf("model: empty table name")
	}
	if len(m.Fields) == 0 {
		return fmt.Errorf("model %s: no fields", m.Table)
	}
	seen := make(map[string]bool, len(m.Fields))
	for i, f := range m.Fields {
		if f == nil {
			return fmt.Errorf("model %s: nil field at index %d", m.Table, i)
		}
		if f.Name == "" {
			return fmt.Errorf("model %s: field %d has no name", m.Table, i)
		}
		if seen[f.Name] {
			return fmt.Errorf("model %s: duplicate field %q", m.Table, f.Name)
		}
		seen[f.Name] = true
		if f.Model != m.Table {
			return fmt.Errorf("model %s: field %q claims owner %q", m.Table, f.Name, f.Model)
		}
		if f.Index != i {
			return fmt.Errorf("model %s: field %q has index %d, expected %d", m.Table, f.Name, f.Index, i)
		}
		if len(f.Columns) != len(f.EffectiveAnnotations) {
			return fmt.Errorf("model %s: field %q has %d columns but %d annotation sets",
				m.Table, f.Name, len(f.Columns), len(f.EffectiveAnnotations))
		}
		if f.Relation != nil && len(f.Columns) > 1 {
			return fmt.Errorf("model %s: relation field %q must be single-column", m.Table, f.Name)
		}
	}
	if m.PrimaryKey == nil {
		return fmt.Errorf("model %s: no primary key", m.Table)
	}
	if !seen[m.PrimaryKey.Name] {
		return fmt.Errorf("model %s: primary key %q is not a field of the model", m.Table, m.PrimaryKey.Name)
	}
	return nil
}

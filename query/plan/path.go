// Package plan assembles one query's relational shape: selected columns,
// implicit joins, orderings and a flat condition representation.
package plan

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"github.com/structql/structql/model"
)

// PathID is the stable, structurally derived identity of a Path.
//
// Two independently constructed but structurally equal paths share one id,
// which makes it usable as a map key for join deduplication.
type PathID uint64

// Path describes the chain of relation hops used to reach a model.
//
// A path is either an Origin (no hops, tagged by a model) or a Step
// (one additional hop through a relation field on top of a parent path).
// Paths are stateless descriptors; only their id is stored at runtime.
type Path interface {
	// ID returns the path's structural identity.
	ID() PathID
	// Meta returns the model the path currently points to.
	Meta() *model.Meta
	// addToContext registers all joins the path requires and
	// returns the path's alias.
	addToContext(c *Context) string
}

type originPath struct {
	meta *model.Meta
	id   PathID
}

// Origin starts a path at a model.
func Origin(meta *model.Meta) Path {
	h := fnv.New64a()
	h.Write([]byte("origin"))
	h.Write([]byte{0})
	h.Write([]byte(meta.Table))
	return &originPath{meta: meta, id: PathID(h.Sum64())}
}

func (p *originPath) ID() PathID        { return p.id }
func (p *originPath) Meta() *model.Meta { return p.meta }

func (p *originPath) addToContext(c *Context) string {
	return c.registerOrigin(p)
}

type stepPath struct {
	parent Path
	field  *model.Field
	meta   *model.Meta // model the step points to
	id     PathID
}

// Step extends a path by one hop through a relation field.
//
// The field must be a relation field declared on the parent path's current
// model; violating either is a descriptor bug and panics.
func Step(parent Path, field *model.Field) Path {
	if field.Relation == nil {
		panic(fmt.Sprintf("plan: field %s.%s is not a relation", field.Model, field.Name))
	}
	if field.Model != parent.Meta().Table {
		panic(fmt.Sprintf("plan: field %s.%s stepped from model %s", field.Model, field.Name, parent.Meta().Table))
	}
	target, ok := model.Lookup(field.Relation.TargetModel)
	if !ok {
		panic(fmt.Sprintf("plan: relation target %s is not registered", field.Relation.TargetModel))
	}

	// Order-sensitive combination of the parent's id with the field identity.
	h := fnv.New64a()
	var parentID [8]byte
	binary.BigEndian.PutUint64(parentID[:], uint64(parent.ID()))
	h.Write(parentID[:])
	h.Write([]byte(field.Model))
	h.Write([]byte{0})
	h.Write([]byte(field.Name))

	return &stepPath{
		parent: parent,
		field:  field,
		meta:   target,
		id:     PathID(h.Sum64()),
	}
}

func (p *stepPath) ID() PathID        { return p.id }
func (p *stepPath) Meta() *model.Meta { return p.meta }

func (p *stepPath) addToContext(c *Context) string {
	return c.registerStep(p)
}

// onColumns resolves which columns the step's equality join compares.
//
// For a ForeignModel step the parent side holds the foreign key and the
// child side the targeted column. For a BackRef step the roles swap: the
// foreign key lives on the child model and points back at the parent.
func (p *stepPath) onColumns() (childColumn, parentColumn string) {
	rel := p.field.Relation
	switch rel.Kind {
	case model.ForeignModel:
		target, ok := p.meta.Field(rel.TargetField)
		if !ok {
			panic(fmt.Sprintf("plan: relation %s.%s targets unknown field %s.%s",
				p.field.Model, p.field.Name, rel.TargetModel, rel.TargetField))
		}
		return target.Column(), p.field.Column()
	case model.BackRef:
		fk, ok := p.meta.Field(rel.TargetField)
		if !ok || fk.Relation == nil {
			panic(fmt.Sprintf("plan: back reference %s.%s targets non-relation field %s.%s",
				p.field.Model, p.field.Name, rel.TargetModel, rel.TargetField))
		}
		parentField, ok := p.parent.Meta().Field(fk.Relation.TargetField)
		if !ok {
			panic(fmt.Sprintf("plan: foreign key %s.%s targets unknown field %s.%s",
				fk.Model, fk.Name, p.parent.Meta().Table, fk.Relation.TargetField))
		}
		return fk.Column(), parentField.Column()
	default:
		panic(fmt.Sprintf("plan: unknown relation kind %q", rel.Kind))
	}
}

// joinAlias generates the n-th short join alias: a, b, ..., z, aa, ab, ...
func joinAlias(n int) string {
	alias := []byte{'a' + byte(n%26)}
	for n = n/26 - 1; n >= 0; n = n/26 - 1 {
		alias = append([]byte{'a' + byte(n%26)}, alias...)
	}
	return string(alias)
}

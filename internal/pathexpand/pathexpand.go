// Package pathexpand implements the optional post-decode dotted-key
// expansion: "a.b.c" becomes nested objects unless a segment is not a bare
// identifier, in which case the key is left alone.
package pathexpand

import (
	"regexp"
	"strings"

	"github.com/mcncl/gotoon/internal/errors"
	"github.com/mcncl/gotoon/internal/value"
)

// segmentRe matches an IdentifierSegment: the unit path expansion splits on.
var segmentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Expand walks v recursively, exploding any object key containing '.' where
// every dot-separated segment is an IdentifierSegment into a nested object
// chain merged into the existing structure. strict controls the conflict
// policy: in strict mode a collision between an existing non-object node
// and an incoming path that needs to descend through it fails with
// ExpansionConflict; otherwise the later write wins and replaces the
// conflicting node.
func Expand(v value.Value, strict bool) (value.Value, error) {
	switch v.Kind() {
	case value.Object:
		return expandObject(v.Obj(), strict)
	case value.Array:
		out := make([]value.Value, len(v.Arr()))
		for i, el := range v.Arr() {
			ev, err := Expand(el, strict)
			if err != nil {
				return value.Value{}, err
			}
			out[i] = ev
		}
		return value.NewArray(out), nil
	default:
		return v, nil
	}
}

func expandObject(src *value.Obj, strict bool) (value.Value, error) {
	dst := value.NewObj()
	for _, key := range src.Keys() {
		raw, _ := src.Get(key)
		val, err := Expand(raw, strict)
		if err != nil {
			return value.Value{}, err
		}

		segs, ok := splitIdentifierPath(key)
		if !ok {
			if existing, has := dst.Get(key); has && existing.Kind() == value.Object {
				if val.Kind() == value.Object {
					mergeObjects(existing.Obj(), val.Obj())
					continue
				}
				if strict {
					return value.Value{}, errors.New(errors.KindExpansionConflict,
						"key \""+key+"\" disagrees on object-ness with a previously expanded path", nil)
				}
			}
			dst.Set(key, val)
			continue
		}
		if err := merge(dst, segs, val, strict); err != nil {
			return value.Value{}, err
		}
	}
	return value.NewObject(dst), nil
}

// splitIdentifierPath splits key on '.' and reports ok only if it contains
// at least one dot and every segment is a bare IdentifierSegment.
func splitIdentifierPath(key string) ([]string, bool) {
	if !strings.Contains(key, ".") {
		return nil, false
	}
	segs := strings.Split(key, ".")
	for _, s := range segs {
		if !segmentRe.MatchString(s) {
			return nil, false
		}
	}
	return segs, true
}

// merge grafts val onto dst at the path segs, creating intermediate objects
// as needed.
func merge(dst *value.Obj, segs []string, val value.Value, strict bool) error {
	cur := dst
	for i, seg := range segs[:len(segs)-1] {
		existing, has := cur.Get(seg)
		if !has {
			child := value.NewObj()
			cur.Set(seg, value.NewObject(child))
			cur = child
			continue
		}
		if existing.Kind() != value.Object {
			if strict {
				return errors.New(errors.KindExpansionConflict,
					"path segment \""+strings.Join(segs[:i+1], ".")+"\" collides with a non-object value", nil)
			}
			child := value.NewObj()
			cur.Set(seg, value.NewObject(child))
			cur = child
			continue
		}
		cur = existing.Obj()
	}

	leaf := segs[len(segs)-1]
	if existing, has := cur.Get(leaf); has {
		sameKind := existing.Kind() == value.Object && val.Kind() == value.Object
		bothNonObject := existing.Kind() != value.Object && val.Kind() != value.Object
		if !sameKind && !bothNonObject {
			if strict {
				return errors.New(errors.KindExpansionConflict,
					"path leaf \""+strings.Join(segs, ".")+"\" disagrees on object-ness with an existing value", nil)
			}
			cur.Set(leaf, val)
			return nil
		}
		if existing.Kind() == value.Object && val.Kind() == value.Object {
			mergeObjects(existing.Obj(), val.Obj())
			return nil
		}
	}
	cur.Set(leaf, val)
	return nil
}

// mergeObjects copies src's entries into dst in place, last-write-wins,
// merging recursively where both sides hold an object under the same key.
func mergeObjects(dst, src *value.Obj) {
	for _, k := range src.Keys() {
		v, _ := src.Get(k)
		if existing, ok := dst.Get(k); ok && existing.Kind() == value.Object && v.Kind() == value.Object {
			mergeObjects(existing.Obj(), v.Obj())
			continue
		}
		dst.Set(k, v)
	}
}

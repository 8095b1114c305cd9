// Copyright (C) 2024 J. Chanco. All Rights Reserved.

// Package jpath implements navigation and editing of JSON values addressed
// by a path of object keys.
//
// A path descends only through objects; paths never index into arrays.
// Each step resolves to the first member whose key matches, so an object
// with duplicate keys still has exactly one addressable slot per key.
// Edits never modify the input: the result shares every subtree the path
// did not touch with the original value.
package jpath

import (
	"github.com/pkg/errors"

	"github.com/jchanco/ezjsonm/ast"
)

// ErrNotFound is reported when a path cannot be resolved: a key is missing,
// or a non-object stands where the path has keys left to descend.
var ErrNotFound = errors.New("path not found")

// Has reports whether the full path resolves in v. A missing key or a
// non-object mid-path is false, never an error.
func Has(v ast.Value, path ...string) bool {
	_, err := Get(v, path...)
	return err == nil
}

// Get returns the value at the given path in v. An empty path returns v
// itself. If the path does not resolve, Get reports an error wrapping
// ErrNotFound that names the failing key.
func Get(v ast.Value, path ...string) (ast.Value, error) {
	cur := v
	for _, key := range path {
		obj, ok := cur.(ast.Object)
		if !ok {
			return nil, errors.Wrapf(ErrNotFound, "key %q in %s", key, ast.TypeName(cur))
		}
		m := obj.Find(key)
		if m == nil {
			return nil, errors.Wrapf(ErrNotFound, "key %q", key)
		}
		cur = m.Value
	}
	return cur, nil
}

// Update applies f to the value at the given path in v and returns the
// updated tree. A result of (x, true) replaces the addressed value with x;
// (_, false) removes the member holding it. Update never reports an error:
// a path blocked by a missing intermediate key, or by a non-object where
// keys remain, leaves the tree unchanged.
//
// When the terminal key exists, the replacement keeps the member's
// position, and removal deletes the member. When the terminal key is
// missing from an otherwise resolvable path, f is probed with Null — an
// absent key and an explicit null are indistinguishable to f — and a
// (x, true) result appends a new member at the end of that object.
// Intermediate objects are never created on a missing key.
//
// With an empty path f applies to v itself; removing the root yields Null.
//
// The returned tree shares all untouched subtrees with v; only the spine
// along the path is copied.
func Update(v ast.Value, path []string, f func(ast.Value) (ast.Value, bool)) ast.Value {
	out, keep, _ := apply(v, path, f)
	if !keep {
		return ast.Null
	}
	return out
}

// apply descends one object level per path segment. keep reports whether
// the value should be retained; false at the top of a member means the
// member is removed. changed reports whether anything below this point was
// edited, so untouched spines can be returned without copying.
func apply(v ast.Value, path []string, f func(ast.Value) (ast.Value, bool)) (_ ast.Value, keep, changed bool) {
	if len(path) == 0 {
		nv, keep := f(v)
		return nv, keep, true
	}
	obj, ok := v.(ast.Object)
	if !ok {
		return v, true, false // blocked branch: leave the value as it stands
	}
	key := path[0]

	if i := obj.IndexKey(key); i >= 0 {
		nv, keep, changed := apply(obj[i].Value, path[1:], f)
		if !keep {
			out := make(ast.Object, 0, len(obj)-1)
			out = append(out, obj[:i]...)
			return append(out, obj[i+1:]...), true, true
		}
		if !changed {
			return obj, true, false // nothing changed below; keep the original spine
		}
		out := make(ast.Object, len(obj))
		copy(out, obj)
		out[i] = &ast.Member{Key: key, Value: nv}
		return out, true, true
	}

	// The key is absent. At the terminal segment, probe f with a synthetic
	// Null and append the member it produces; deeper segments are missing
	// intermediates, which are never created.
	if len(path) == 1 {
		nv, keep := f(ast.Null)
		if !keep {
			return obj, true, false
		}
		out := make(ast.Object, len(obj), len(obj)+1)
		copy(out, obj)
		return append(out, &ast.Member{Key: key, Value: nv}), true, true
	}
	return obj, true, false
}

// Set replaces the value at the given path in v with nv, creating the
// terminal key if an existing chain of objects leads to it, and returns
// the updated tree. It reports ErrNotFound only when the path is non-empty
// and the root itself is not an object; a branch blocked deeper in the
// tree is a silent no-op, as in Update.
func Set(v ast.Value, path []string, nv ast.Value) (ast.Value, error) {
	if err := checkRoot(v, path); err != nil {
		return nil, err
	}
	return Update(v, path, func(ast.Value) (ast.Value, bool) { return nv, true }), nil
}

// Delete removes the member at the given path in v, if it resolves, and
// returns the updated tree. Like Set, it reports ErrNotFound only for a
// non-object root.
func Delete(v ast.Value, path []string) (ast.Value, error) {
	if err := checkRoot(v, path); err != nil {
		return nil, err
	}
	return Update(v, path, func(ast.Value) (ast.Value, bool) { return nil, false }), nil
}

func checkRoot(v ast.Value, path []string) error {
	if len(path) == 0 {
		return nil
	}
	if _, ok := v.(ast.Object); !ok {
		return errors.Wrapf(ErrNotFound, "root is %s", ast.TypeName(v))
	}
	return nil
}

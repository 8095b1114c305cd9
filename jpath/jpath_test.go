// Copyright (C) 2024 J. Chanco. All Rights Reserved.

package jpath_test

import (
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/jchanco/ezjsonm/ast"
	"github.com/jchanco/ezjsonm/jpath"
)

func mustParse(t *testing.T, text string) ast.Value {
	t.Helper()
	v, err := ast.Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Parse %#q: %v", text, err)
	}
	return v
}

const testJSON = `{
  "a": {"b": 1},
  "list": [{"x": 1}, {"x": 2}],
  "k": 1,
  "k": 2,
  "deep": {"null": null, "obj": {}}
}`

func TestGet(t *testing.T) {
	v := mustParse(t, testJSON)

	tests := []struct {
		desc string
		path []string
		want string // compact JSON of the result; "" means not found
	}{
		{"empty path is the root", nil, v.JSON()},
		{"top-level key", []string{"a"}, `{"b":1}`},
		{"nested key", []string{"a", "b"}, `1`},
		{"duplicate key resolves to the first match", []string{"k"}, `1`},
		{"explicit null is found", []string{"deep", "null"}, `null`},
		{"empty object is found", []string{"deep", "obj"}, `{}`},

		{"missing key", []string{"nonesuch"}, ``},
		{"missing nested key", []string{"a", "nonesuch"}, ``},
		{"scalar mid-path", []string{"a", "b", "c"}, ``},
		{"array mid-path", []string{"list", "x"}, ``},
	}
	for _, tc := range tests {
		got, err := jpath.Get(v, tc.path...)
		if tc.want == "" {
			if err == nil {
				t.Errorf("Case %q: Get returned %s, want error", tc.desc, got.JSON())
			} else if !errors.Is(err, jpath.ErrNotFound) {
				t.Errorf("Case %q: got error %v, want ErrNotFound", tc.desc, err)
			}
		} else if err != nil {
			t.Errorf("Case %q: unexpected error: %v", tc.desc, err)
		} else if got.JSON() != tc.want {
			t.Errorf("Case %q: got %s, want %s", tc.desc, got.JSON(), tc.want)
		}

		// Has must agree with Get exactly.
		if has := jpath.Has(v, tc.path...); has != (tc.want != "") {
			t.Errorf("Case %q: Has reports %v, Get disagrees", tc.desc, has)
		}
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		desc  string
		input string
		path  []string
		nv    ast.Value
		want  string
	}{
		{
			"replace a nested value in place",
			`{"a":{"b":1}}`, []string{"a", "b"}, ast.Number(2),
			`{"a":{"b":2}}`,
		},
		{
			"replacement preserves member position",
			`{"p":1,"q":2,"r":3}`, []string{"q"}, ast.String("mid"),
			`{"p":1,"q":"mid","r":3}`,
		},
		{
			"new terminal key appends at the end",
			`{"a":1}`, []string{"c"}, ast.Bool(true),
			`{"a":1,"c":true}`,
		},
		{
			"missing intermediate is never created",
			`{}`, []string{"x", "y"}, ast.Number(1),
			`{}`,
		},
		{
			"scalar intermediate blocks the edit",
			`{"a":1}`, []string{"a", "b"}, ast.Number(2),
			`{"a":1}`,
		},
		{
			"duplicate key edits only the first match",
			`{"k":1,"k":2}`, []string{"k"}, ast.Number(9),
			`{"k":9,"k":2}`,
		},
		{
			"explicit null is replaceable like any value",
			`{"n":null}`, []string{"n"}, ast.Number(7),
			`{"n":7}`,
		},
		{
			"empty path replaces the root",
			`{"a":1}`, nil, ast.Array{ast.Null},
			`[null]`,
		},
	}
	for _, tc := range tests {
		in := mustParse(t, tc.input)
		got, err := jpath.Set(in, tc.path, tc.nv)
		if err != nil {
			t.Errorf("Case %q: unexpected error: %v", tc.desc, err)
			continue
		}
		if got.JSON() != tc.want {
			t.Errorf("Case %q: got %s, want %s", tc.desc, got.JSON(), tc.want)
		}
		if !ast.Equal(in, mustParse(t, tc.input)) {
			t.Errorf("Case %q: input tree was modified: %s", tc.desc, in.JSON())
		}
	}
}

func TestSetNonObjectRoot(t *testing.T) {
	for _, root := range []ast.Value{ast.Array{ast.Number(1)}, ast.Number(1), ast.Null} {
		if _, err := jpath.Set(root, []string{"a"}, ast.Null); !errors.Is(err, jpath.ErrNotFound) {
			t.Errorf("Set on root %s: got error %v, want ErrNotFound", root.JSON(), err)
		}
		if _, err := jpath.Delete(root, []string{"a"}); !errors.Is(err, jpath.ErrNotFound) {
			t.Errorf("Delete on root %s: got error %v, want ErrNotFound", root.JSON(), err)
		}
	}

	// With an empty path there is nothing to descend, so any root is fine.
	got, err := jpath.Set(ast.Number(1), nil, ast.Object{})
	if err != nil {
		t.Errorf("Set with empty path: unexpected error: %v", err)
	} else if got.JSON() != `{}` {
		t.Errorf("Set with empty path: got %s, want {}", got.JSON())
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		desc  string
		input string
		path  []string
		want  string
	}{
		{"remove a nested member", `{"a":{"b":1}}`, []string{"a", "b"}, `{"a":{}}`},
		{"siblings keep their order", `{"p":1,"q":2,"r":3}`, []string{"q"}, `{"p":1,"r":3}`},
		{"missing terminal key is a no-op", `{"a":1}`, []string{"b"}, `{"a":1}`},
		{"blocked branch is a no-op", `{"a":1}`, []string{"a", "b"}, `{"a":1}`},
		{"first duplicate only", `{"k":1,"k":2}`, []string{"k"}, `{"k":2}`},
	}
	for _, tc := range tests {
		got, err := jpath.Delete(mustParse(t, tc.input), tc.path)
		if err != nil {
			t.Errorf("Case %q: unexpected error: %v", tc.desc, err)
		} else if got.JSON() != tc.want {
			t.Errorf("Case %q: got %s, want %s", tc.desc, got.JSON(), tc.want)
		}
	}
}

func TestUpdate(t *testing.T) {
	t.Run("ProbeSeesNullForMissingKey", func(t *testing.T) {
		// An absent terminal key and an explicit null are indistinguishable
		// to the update function.
		var probed []ast.Value
		record := func(v ast.Value) (ast.Value, bool) {
			probed = append(probed, v)
			return ast.Bool(true), true
		}
		in := mustParse(t, `{"n":null}`)
		jpath.Update(in, []string{"n"}, record)
		jpath.Update(in, []string{"absent"}, record)
		for i, p := range probed {
			if !ast.Equal(p, ast.Null) {
				t.Errorf("Probe %d: got %s, want null", i, p.JSON())
			}
		}
		if len(probed) != 2 {
			t.Errorf("Got %d probes, want 2", len(probed))
		}
	})

	t.Run("RemoveRootYieldsNull", func(t *testing.T) {
		got := jpath.Update(mustParse(t, `{"a":1}`), nil, func(ast.Value) (ast.Value, bool) {
			return nil, false
		})
		if !ast.Equal(got, ast.Null) {
			t.Errorf("Got %s, want null", got.JSON())
		}
	})

	t.Run("FuncSeesExistingValue", func(t *testing.T) {
		in := mustParse(t, `{"a":{"b":5}}`)
		got := jpath.Update(in, []string{"a", "b"}, func(v ast.Value) (ast.Value, bool) {
			n, err := ast.AsFloat(v)
			if err != nil {
				t.Fatalf("Probe: %v", err)
			}
			return ast.Number(n + 1), true
		})
		if got.JSON() != `{"a":{"b":6}}` {
			t.Errorf("Got %s, want {\"a\":{\"b\":6}}", got.JSON())
		}
	})

	t.Run("BlockedProbeNeverCalled", func(t *testing.T) {
		in := mustParse(t, `{"a":1}`)
		got := jpath.Update(in, []string{"x", "y"}, func(ast.Value) (ast.Value, bool) {
			t.Error("update func called on a blocked branch")
			return ast.Null, true
		})
		if !ast.Equal(got, in) {
			t.Errorf("Got %s, want the input unchanged", got.JSON())
		}
	})
}

// An edit must copy only the spine along its path; every subtree the path
// does not touch must be shared with the original by reference.
func TestStructuralSharing(t *testing.T) {
	in := mustParse(t, `{"a":{"b":1},"big":{"c":[1,2,3]},"z":9}`).(ast.Object)

	out, err := jpath.Set(in, []string{"a", "b"}, ast.Number(2))
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	got := out.(ast.Object)

	if got.Find("big") != in.Find("big") {
		t.Error(`Member "big" was copied; want it shared with the input`)
	}
	if got.Find("z") != in.Find("z") {
		t.Error(`Member "z" was copied; want it shared with the input`)
	}
	if got.Find("a") == in.Find("a") {
		t.Error(`Member "a" is shared with the input; want it replaced`)
	}
	if in.JSON() != `{"a":{"b":1},"big":{"c":[1,2,3]},"z":9}` {
		t.Errorf("Input tree was modified: %s", in.JSON())
	}

	// A no-op edit must return the original spine untouched.
	same := jpath.Update(in, []string{"nope", "deeper"}, func(ast.Value) (ast.Value, bool) {
		return ast.Null, true
	})
	if so, ok := same.(ast.Object); !ok || len(so) != len(in) || so.Find("a") != in.Find("a") {
		t.Errorf("No-op update rebuilt the tree: %s", same.JSON())
	}
}

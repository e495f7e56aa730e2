// Copyright (c) 2018, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

import "testing"

func TestListEnvironGetSet(t *testing.T) {
	env := ListEnviron("FOO=bar", "EMPTY=", "malformed")
	if got := env.Get("FOO").Str; got != "bar" {
		t.Fatalf("Get(FOO) = %q, want %q", got, "bar")
	}
	if vr := env.Get("EMPTY"); !vr.IsSet() || vr.Str != "" {
		t.Fatalf("Get(EMPTY) = %+v, want set empty string", vr)
	}
	if vr := env.Get("MISSING"); vr.IsSet() {
		t.Fatalf("Get(MISSING).IsSet() = true, want false")
	}
	if err := env.Set("NEW", Variable{Kind: String, Str: "val"}); err != nil {
		t.Fatal(err)
	}
	if got := env.Get("NEW").Str; got != "val" {
		t.Fatalf("Get(NEW) after Set = %q, want %q", got, "val")
	}
	if err := env.Set("NEW", Variable{Kind: Unset}); err != nil {
		t.Fatal(err)
	}
	if vr := env.Get("NEW"); vr.IsSet() {
		t.Fatalf("Get(NEW) after unset Set still IsSet")
	}
}

func TestListEnvironEachSorted(t *testing.T) {
	env := ListEnviron("B=2", "A=1", "C=3")
	var seen []string
	env.Each(func(name string, vr Variable) bool {
		seen = append(seen, name)
		return true
	})
	want := []string{"A", "B", "C"}
	if len(seen) != len(want) {
		t.Fatalf("Each visited %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("Each order = %v, want %v", seen, want)
		}
	}
}

func TestVariableStringDecay(t *testing.T) {
	tests := []struct {
		name string
		vr   Variable
		want string
	}{
		{"unset", Variable{}, ""},
		{"string", Variable{Kind: String, Str: "x"}, "x"},
		{"indexed", Variable{Kind: Indexed, List: []string{"a", "b"}}, "a"},
		{"indexed-empty", Variable{Kind: Indexed}, ""},
		{"assoc", Variable{Kind: Associative, Map: map[string]string{"0": "z"}}, "z"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.vr.String(); got != tc.want {
				t.Fatalf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

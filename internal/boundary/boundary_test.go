package boundary

import "testing"

func TestFinite(t *testing.T) {
	cases := []struct {
		name   string
		policy Policy
		want   bool
	}{
		{"void", NewVoid(), true},
		{"wrap", NewWrap(), true},
		{"static", NewStatic(), true},
		{"infinite", NewInfinite(), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.policy.Finite(); got != c.want {
				t.Errorf("%s.Finite() = %v, want %v", c.name, got, c.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	want := map[Kind]string{Void: "void", Wrap: "wrap", Infinite: "infinite", Static: "static"}
	for k, s := range want {
		if k.String() != s {
			t.Errorf("%v.String() = %q, want %q", k, k.String(), s)
		}
	}
}

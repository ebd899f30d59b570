package raw

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("LOG_LEVEL", "  info ")
	c := New().Prefix("LOG_")
	if got := c.Get("LEVEL", "debug"); got != "info" {
		t.Fatalf("Get = %q, want info", got)
	}
	if got := c.Get("MISSING", "debug"); got != "debug" {
		t.Fatalf("Get default = %q, want debug", got)
	}
}

func TestGetBool(t *testing.T) {
	c := New().Prefix("B_")
	cases := []struct {
		val  string
		def  bool
		want bool
	}{
		{"1", false, true},
		{"yes", false, true},
		{"ON", false, true},
		{"off", true, false},
		{"0", true, false},
		{"maybe", true, true},
		{"", false, false},
	}
	for _, tc := range cases {
		t.Setenv("B_FLAG", tc.val)
		if got := c.GetBool("FLAG", tc.def); got != tc.want {
			t.Fatalf("GetBool(%q, %v) = %v, want %v", tc.val, tc.def, got, tc.want)
		}
	}
}

func TestGetInt(t *testing.T) {
	c := New()
	t.Setenv("N", "42")
	if got := c.GetInt("N", 1); got != 42 {
		t.Fatalf("GetInt = %d, want 42", got)
	}
	t.Setenv("N", "-3")
	if got := c.GetInt("N", 1); got != 1 {
		t.Fatalf("GetInt negative = %d, want default", got)
	}
	t.Setenv("N", "x1")
	if got := c.GetInt("N", 7); got != 7 {
		t.Fatalf("GetInt invalid = %d, want default", got)
	}
}

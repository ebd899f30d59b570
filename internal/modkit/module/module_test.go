package module

import (
	"context"
	"testing"

	phttp "jakebot/internal/platform/net/http"
	"jakebot/internal/platform/testkit"
)

type runner interface{ Run(context.Context) error }

type fakeRunner struct{}

func (fakeRunner) Run(context.Context) error { return nil }

type enginePorts struct {
	Runner runner
	hidden runner
}

type stub struct{ ports any }

func (s stub) MountRoutes(phttp.Router) {}
func (s stub) Ports() any               { return s.ports }
func (s stub) Name() string             { return "engine" }

func TestPortsOf(t *testing.T) {
	cases := []struct {
		name  string
		ports any
		ok    bool
	}{
		{"field", enginePorts{Runner: fakeRunner{}}, true},
		{"direct", fakeRunner{}, true},
		{"unexported only", enginePorts{hidden: fakeRunner{}}, false},
		{"nil", nil, false},
		{"not a struct", 7, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, ok := PortsOf[runner](stub{c.ports}); ok != c.ok {
				t.Fatalf("ok = %v want %v", ok, c.ok)
			}
		})
	}
	testkit.MustPanic(t, func() { MustPortsOf[runner](stub{nil}) })
}

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("engine", enginePorts{Runner: fakeRunner{}})
	if p, ok := PortsAs[enginePorts]("engine"); !ok || p.Runner == nil {
		t.Fatalf("PortsAs = %+v %v", p, ok)
	}
	if _, ok := PortsAs[string]("engine"); ok {
		t.Fatal("wrong type should not match")
	}
	if _, ok := PortsAs[enginePorts]("missing"); ok {
		t.Fatal("missing name should not match")
	}
}

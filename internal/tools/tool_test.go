package tools

import (
	"context"
	"testing"
)

type stubTool struct {
	name string
	out  string
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return s.name + " description" }
func (s *stubTool) Run(_ context.Context, _ string) (string, error) {
	return s.out, nil
}

func TestRegistryOrderAndLookup(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubTool{name: "beta"})
	r.Register(&stubTool{name: "alpha"})

	got := r.List()
	if len(got) != 2 || got[0] != "beta" || got[1] != "alpha" {
		t.Errorf("List() = %v, want registration order [beta alpha]", got)
	}

	if _, ok := r.Get("alpha"); !ok {
		t.Error("expected alpha to be registered")
	}
	if _, ok := r.Get("gamma"); ok {
		t.Error("gamma should not be registered")
	}
}

func TestRegistryReRegisterKeepsOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubTool{name: "beta", out: "v1"})
	r.Register(&stubTool{name: "alpha"})
	r.Register(&stubTool{name: "beta", out: "v2"})

	if got := r.List(); len(got) != 2 || got[0] != "beta" {
		t.Errorf("List() = %v, want beta to keep its slot", got)
	}
	tool, _ := r.Get("beta")
	out, err := tool.Run(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if out != "v2" {
		t.Errorf("Get(beta) returned the stale registration: %s", out)
	}
}

func TestRegistryDefinitions(t *testing.T) {
	r := NewRegistry()
	r.Register(NewCurrencyTool())
	r.Register(&stubTool{name: "beta"})

	defs := r.Definitions()
	if len(defs) != 2 {
		t.Fatalf("got %d definitions, want 2", len(defs))
	}
	if defs[0].Function.Name != CurrencyToolName || defs[1].Function.Name != "beta" {
		t.Errorf("definitions out of order: %s, %s", defs[0].Function.Name, defs[1].Function.Name)
	}
	if defs[0].Type != "function" {
		t.Errorf("type = %s, want function", defs[0].Type)
	}
	if len(defs[0].Function.Parameters) == 0 {
		t.Error("expected parameter schema on definition")
	}
}

package providers

import "testing"

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if r.Active() != nil {
		t.Error("empty registry should have no active provider")
	}

	first := NewMock()
	r.Register(first)

	t.Run("first registered becomes active", func(t *testing.T) {
		if r.Active() != first {
			t.Error("expected first provider to be active")
		}
	})

	t.Run("set active unknown", func(t *testing.T) {
		if err := r.SetActive("nope"); err == nil {
			t.Error("expected error for unknown provider")
		}
	})

	t.Run("get and list", func(t *testing.T) {
		if _, ok := r.Get(MockName); !ok {
			t.Error("expected mock to be registered")
		}
		if names := r.List(); len(names) != 1 || names[0] != MockName {
			t.Errorf("unexpected list: %v", names)
		}
	})

	t.Run("re-register replaces", func(t *testing.T) {
		second := NewMock()
		r.Register(second)
		if r.Active() != second {
			t.Error("re-registering under the same name should replace the active instance")
		}
	})
}

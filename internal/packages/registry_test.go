package packages

import (
	"errors"
	"testing"
)

func TestNewResolvesAllTypes(t *testing.T) {
	for _, typeName := range Types() {
		a, err := New(typeName, Deps{})
		if err != nil {
			t.Fatalf("New(%q) error = %v", typeName, err)
		}
		if got := a.Metadata().Type; got != typeName {
			t.Errorf("New(%q).Metadata().Type = %q", typeName, got)
		}
	}
}

func TestNewUnknownType(t *testing.T) {
	_, err := New("definitely-not-a-package", Deps{})
	if !errors.Is(err, ErrUnknownPackage) {
		t.Errorf("New() error = %v, want ErrUnknownPackage", err)
	}
}

func TestAllReturnsEveryAdapter(t *testing.T) {
	adapters := All(Deps{})
	if len(adapters) != len(Types()) {
		t.Fatalf("All() returned %d adapters, want %d", len(adapters), len(Types()))
	}
}

func TestMetadataStrategySupport(t *testing.T) {
	for _, a := range All(Deps{}) {
		meta := a.Metadata()
		if !meta.SupportsStrategy("none") {
			t.Errorf("%s: StrategyNone must always be supported", meta.Type)
		}
		if meta.StartupMarker == "" {
			t.Errorf("%s: missing startup marker", meta.Type)
		}
		if meta.RepoURL == "" || meta.DefaultBranch == "" {
			t.Errorf("%s: incomplete repository metadata", meta.Type)
		}
	}
}

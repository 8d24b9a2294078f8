package packages

import (
	"errors"
	"fmt"
	"strings"
)

// Supported package type identifiers.
const (
	TypeComfyUI = "comfyui"
	TypeSDWebUI = "sdwebui"
	TypeFooocus = "fooocus"
	TypeKohya   = "kohya"
	TypeSwarmUI = "swarmui"
)

// ErrUnknownPackage is returned when a stored type name resolves to no
// adapter.
var ErrUnknownPackage = errors.New("unknown package type")

// Types lists all supported package types in display order.
func Types() []string {
	return []string{TypeComfyUI, TypeSDWebUI, TypeFooocus, TypeKohya, TypeSwarmUI}
}

// New returns the adapter for the given package type.
func New(typeName string, deps Deps) (Adapter, error) {
	switch typeName {
	case TypeComfyUI:
		return newComfyUI(deps), nil
	case TypeSDWebUI:
		return newSDWebUI(deps), nil
	case TypeFooocus:
		return newFooocus(deps), nil
	case TypeKohya:
		return newKohya(deps), nil
	case TypeSwarmUI:
		return newSwarmUI(deps), nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownPackage, typeName, strings.Join(Types(), ", "))
	}
}

// All returns one adapter instance per supported type.
func All(deps Deps) []Adapter {
	adapters := make([]Adapter, 0, len(Types()))
	for _, t := range Types() {
		a, _ := New(t, deps)
		adapters = append(adapters, a)
	}
	return adapters
}

package engine

import "fmt"

// Serializable is a component that round-trips through a JSON-friendly map.
type Serializable interface {
	Component
	TypeName() string
	Serialize() map[string]any
	Deserialize(data map[string]any)
}

// ComponentFactory returns a fresh component with default values.
type ComponentFactory func() Serializable

var componentRegistry = map[string]ComponentFactory{}

// RegisterComponent registers a factory under name. Registering the same
// name twice panics.
func RegisterComponent(name string, factory ComponentFactory) {
	if _, exists := componentRegistry[name]; exists {
		panic(fmt.Sprintf("component %q already registered", name))
	}
	componentRegistry[name] = factory
}

// CreateComponent builds the component described by data. data["type"]
// selects the factory; the rest is passed to Deserialize.
func CreateComponent(data map[string]any) (Serializable, error) {
	name, ok := data["type"].(string)
	if !ok {
		return nil, fmt.Errorf("component data has no type")
	}
	factory, ok := componentRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown component type %q", name)
	}
	c := factory()
	c.Deserialize(data)
	return c, nil
}

func IsComponentRegistered(name string) bool {
	_, ok := componentRegistry[name]
	return ok
}

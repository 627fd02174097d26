package timing

// A Named object has a name.
type Named interface {
	Name() string
}

// A Component is an element being simulated.
type Component interface {
	Named
	Handler
	Hookable
}

// ComponentBase provides the name and the hooks of a component.
type ComponentBase struct {
	HookableBase

	name string
}

// NewComponentBase creates a ComponentBase.
func NewComponentBase(name string) *ComponentBase {
	return &ComponentBase{name: name}
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}

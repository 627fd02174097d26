package timing

// HookPos names a place where hooks are invoked.
type HookPos struct {
	Name string
}

// HookCtx carries the information about the site where a hook is triggered.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// Hookable is an object that accepts hooks.
type Hookable interface {
	AcceptHook(hook Hook)
}

// HookPosBeforeEvent is triggered before an event is handled.
var HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent is triggered after an event is handled.
var HookPosAfterEvent = &HookPos{Name: "AfterEvent"}

// Hook is a short piece of code invoked by a hookable object.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc turns a function into a Hook.
type HookFunc func(ctx HookCtx)

// Func calls f.
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// HookableBase implements Hookable and can be embedded.
type HookableBase struct {
	Hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// NumHooks returns the number of registered hooks.
func (h *HookableBase) NumHooks() int {
	return len(h.Hooks)
}

// InvokeHook triggers all the registered hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}

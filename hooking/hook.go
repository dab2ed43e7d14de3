// Package hooking lets observers attach to the engine and to the
// synchronization primitives without changing their behavior.
//
// A hook site is identified by a HookPos. The engine fires its positions
// around every dispatch; the primitives fire theirs on every put, get,
// request, and release.
package hooking

// HookPos names a site where hooks are invoked.
type HookPos struct {
	Name string
}

// HookCtx carries everything a hook can learn about the site that invoked it.
type HookCtx struct {
	// Domain is the object raising the hook.
	Domain Hookable

	// Pos identifies the site.
	Pos *HookPos

	// Item is the primary subject, usually an event or a stored value.
	Item any

	// Detail holds auxiliary data and may be nil.
	Detail any
}

// Hookable is implemented by everything that accepts hooks.
type Hookable interface {
	// AcceptHook registers a hook. Hooks are registered while the
	// simulation is being assembled and are never removed.
	AcceptHook(hook Hook)

	// NumHooks returns the number of hooks registered.
	NumHooks() int

	// Hooks returns the registered hooks in registration order.
	Hooks() []Hook

	// InvokeHook calls every registered hook with ctx.
	InvokeHook(ctx HookCtx)
}

// Hook is a short piece of program invoked by a Hookable.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts an ordinary function to a Hook. Two HookFuncs are never
// equal, so each one must be registered through a pointer to be told apart.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f *HookFunc) Func(ctx HookCtx) {
	(*f)(ctx)
}

// Fire invokes the hooks of domain at pos with a context whose Domain is
// domain. It does nothing when domain has no hooks.
func Fire(domain Hookable, pos *HookPos, item, detail any) {
	if domain.NumHooks() == 0 {
		return
	}

	domain.InvokeHook(HookCtx{
		Domain: domain,
		Pos:    pos,
		Item:   item,
		Detail: detail,
	})
}

// HookableBase implements Hookable and is meant to be embedded.
type HookableBase struct {
	hookList []Hook
}

// NewHookableBase creates an empty HookableBase.
func NewHookableBase() *HookableBase {
	return &HookableBase{hookList: make([]Hook, 0)}
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

// Hooks returns all the hooks registered.
func (h *HookableBase) Hooks() []Hook {
	return h.hookList
}

// AcceptHook registers a hook. Registering the same hook twice panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.mustNotHaveDuplicatedHook(hook)
	h.hookList = append(h.hookList, hook)
}

func (h *HookableBase) mustNotHaveDuplicatedHook(hook Hook) {
	for _, registered := range h.hookList {
		if registered == hook {
			panic("duplicated hook")
		}
	}
}

// InvokeHook calls the registered hooks in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}

var (
	_ Hookable = (*HookableBase)(nil)
	_ Hook     = (*HookFunc)(nil)
)

package sim

// AnyOf returns an event that fires when the first of events is dispatched.
// Members that are aborted or never fire do not count; if none of them fires,
// neither does the result.
func (e *SerialEngine) AnyOf(events ...Awaitable) *Event {
	composite := newEvent(e, "any_of")

	for _, member := range events {
		member.AsEvent().AddCallback(func(*Event) {
			if composite.Pending() {
				_ = composite.Trigger()
			}
		})
	}

	return composite
}

// AllOf returns an event that fires when the last of events is dispatched. If
// any member never fires, neither does the result. AllOf of no events fires
// at once.
func (e *SerialEngine) AllOf(events ...Awaitable) *Event {
	composite := newEvent(e, "all_of")

	remaining := len(events)
	if remaining == 0 {
		_ = composite.Trigger()
		return composite
	}

	for _, member := range events {
		member.AsEvent().AddCallback(func(*Event) {
			remaining--
			if remaining == 0 && composite.Pending() {
				_ = composite.Trigger()
			}
		})
	}

	return composite
}

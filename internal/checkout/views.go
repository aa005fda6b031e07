package checkout

// View is one visible stage of the checkout flow. Implementations render
// however they like; the session only decides which one is visible.
type View interface {
	Show()
	Hide()
}

// ViewRegistry maps each state to its view. Built once at startup and
// handed to the session; the session hides every view before showing the
// target, so exactly one view is visible after any transition.
type ViewRegistry map[State]View

// Notifier surfaces transient user-facing notifications. The session
// dismisses them after a fixed interval, or immediately on reset.
type Notifier interface {
	ShowError(message string)
	Dismiss()
}

// NopNotifier discards notifications
type NopNotifier struct{}

func (NopNotifier) ShowError(string) {}
func (NopNotifier) Dismiss()         {}

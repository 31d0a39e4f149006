package reconcile

// Level grades a user-facing notification.
type Level int

const (
	// LevelInfo is neutral information.
	LevelInfo Level = iota
	// LevelSuccess confirms a completed action.
	LevelSuccess
	// LevelWarning flags something worth attention, like low stock.
	LevelWarning
	// LevelError reports a failed action.
	LevelError
)

// Notifier receives non-blocking user notifications, the toast analogue.
// Implementations must not block the caller.
type Notifier interface {
	Notify(level Level, message string)
}

// NopNotifier discards notifications; useful for one-shot commands that
// report through their own output.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(Level, string) {}

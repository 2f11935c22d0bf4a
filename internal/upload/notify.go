package upload

// Notification is a user-facing toast.
type Notification struct {
	Title       string
	Description string
	Destructive bool
}

// Notifier surfaces notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) { f(n) }

const (
	titleProcessed   = "Document processed successfully"
	descProcessed    = "Your document has been simplified and analyzed."
	titleFailed      = "Processing failed"
	titleFetchFailed = "Failed to load analysis"
)

func successNotification() Notification {
	return Notification{Title: titleProcessed, Description: descProcessed}
}

func failureNotification(title string, err error) Notification {
	return Notification{Title: title, Description: err.Error(), Destructive: true}
}

package notifier

import "context"

// NoOpNotifier discards every report.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a NoOpNotifier.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// NotifyExport always returns nil.
func (n *NoOpNotifier) NotifyExport(context.Context, Report) error {
	return nil
}

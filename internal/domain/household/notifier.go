package household

import "context"

//go:generate mockgen -source=notifier.go -destination=notifier_mock.go -package=household

// Notifier is told about issued invites after they are committed. Delivery
// is best-effort; errors are logged by the service and never returned.
type Notifier interface {
	InviteIssued(ctx context.Context, event InviteEvent) error
}

type noopNotifier struct{}

func (noopNotifier) InviteIssued(context.Context, InviteEvent) error {
	return nil
}

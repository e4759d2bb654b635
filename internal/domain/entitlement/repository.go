package entitlement

import "context"

// Repository reads entitlement data
type Repository interface {
	// Snapshot loads, in one read transaction, the accounts reachable from userID
	// and their ACTIVE subscriptions. When trainingID is not empty only grants
	// whose plan includes it are returned.
	Snapshot(ctx context.Context, userID, trainingID string) (*Snapshot, error)
}

package ports

import "context"

// IdentityProviderGateway is the account-lifecycle side channel to the
// external identity provider. Fire-and-forget: there is no two-phase
// guarantee between our aggregates and the provider.
type IdentityProviderGateway interface {
	MarkSignedUp(ctx context.Context, accountID string) error
	RemoveAccount(ctx context.Context, accountID string) error
}

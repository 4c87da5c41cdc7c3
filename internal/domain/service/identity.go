package service

import "context"

// ExternalIdentity is the profile asserted by the external identity provider
// after it verified the client's credential.
type ExternalIdentity struct {
	UID       string
	Email     string
	Name      string
	AvatarURL string
}

// IdentityProvider verifies credentials minted by the external auth service.
type IdentityProvider interface {
	// VerifyIDToken checks the provider-issued token and returns the
	// identity it asserts.
	VerifyIDToken(ctx context.Context, idToken string) (*ExternalIdentity, error)

	// DeleteIdentity removes the user record on the provider side.
	DeleteIdentity(ctx context.Context, uid string) error
}

// IdentityMirror keeps the provider-side user record aligned with the local
// account. Mirror calls are best-effort: the local account is the source of
// truth and a mirror failure must not fail the local operation.
type IdentityMirror interface {
	// Link records the local account id on the provider-side user matching
	// the address, creating the provider-side record if none exists.
	Link(ctx context.Context, email string, accountID uint) error

	// Unlink clears the local account id from the provider-side user.
	Unlink(ctx context.Context, email string) error
}

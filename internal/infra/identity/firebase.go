// Package identity wraps the Firebase Auth SDK behind the narrow domain
// interfaces the account service depends on.
package identity

import (
	"context"
	"fmt"

	"github.com/dabinj96/Peaberry-sub000/config"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// accountIDClaim is the custom claim key mirroring the local account id onto
// the Firebase user record.
const accountIDClaim = "account_id"

// firebaseIdentity implements both IdentityProvider and IdentityMirror on a
// single Firebase Auth client.
type firebaseIdentity struct {
	client *fbauth.Client
}

// NewFirebaseIdentity creates the Firebase-backed identity services.
// Both returned interfaces share one underlying client.
func NewFirebaseIdentity(ctx context.Context, cfg *config.Config) (service.IdentityProvider, service.IdentityMirror, error) {
	if cfg.Firebase == nil {
		return nil, nil, fmt.Errorf("firebase configuration is required")
	}

	opts := []option.ClientOption{}
	if cfg.Firebase.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get auth client: %w", err)
	}

	svc := &firebaseIdentity{client: client}

	return svc, svc, nil
}

// VerifyIDToken checks a client-minted ID token and returns the identity it
// asserts. Profile fields come from the token claims, not a user lookup, so
// verification stays a single round trip.
func (s *firebaseIdentity) VerifyIDToken(ctx context.Context, idToken string) (*service.ExternalIdentity, error) {
	token, err := s.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	identity := &service.ExternalIdentity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		identity.Name = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		identity.AvatarURL = picture
	}

	return identity, nil
}

// DeleteIdentity removes the user record on the provider side.
func (s *firebaseIdentity) DeleteIdentity(ctx context.Context, uid string) error {
	if err := s.client.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("failed to delete Firebase user: %w", err)
	}

	return nil
}

// Link records the local account id as a custom claim on the Firebase user
// carrying the address. Locally-registered accounts get a provider-side
// record created on first link.
func (s *firebaseIdentity) Link(ctx context.Context, email string, accountID uint) error {
	user, err := s.client.GetUserByEmail(ctx, email)
	if err != nil {
		user, err = s.client.CreateUser(ctx, (&fbauth.UserToCreate{}).Email(email))
		if err != nil {
			return fmt.Errorf("failed to create Firebase user: %w", err)
		}
	}

	claims := map[string]any{accountIDClaim: accountID}
	if err := s.client.SetCustomUserClaims(ctx, user.UID, claims); err != nil {
		return fmt.Errorf("failed to set custom claims: %w", err)
	}

	return nil
}

// Unlink clears the custom claims from the Firebase user. A missing
// provider-side record counts as already unlinked.
func (s *firebaseIdentity) Unlink(ctx context.Context, email string) error {
	user, err := s.client.GetUserByEmail(ctx, email)
	if err != nil {
		return nil
	}

	if err := s.client.SetCustomUserClaims(ctx, user.UID, nil); err != nil {
		return fmt.Errorf("failed to clear custom claims: %w", err)
	}

	return nil
}

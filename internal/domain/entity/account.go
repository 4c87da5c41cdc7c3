// Package entity contains the core business objects of the application.
package entity

import "time"

// Account represents a member of the directory: either a local
// handle/password account, an account linked to an external identity
// provider, or both. Every account keeps at least one way to sign in.
type Account struct {
	ID           uint
	Handle       string // Unique short name used for local login.
	Email        string // Unique contact address.
	PasswordHash string // Empty for external-only accounts.
	DisplayName  string
	Role         Role

	// External identity linkage. Both fields are empty for local-only
	// accounts; the pair is unique when set.
	ProviderName string
	ProviderUID  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasLocalPassword reports whether the account can log in with a password.
func (a *Account) HasLocalPassword() bool {
	return a.PasswordHash != ""
}

// HasExternalIdentity reports whether the account is linked to a provider.
func (a *Account) HasExternalIdentity() bool {
	return a.ProviderName != "" && a.ProviderUID != ""
}

// IsExternalOnly reports whether the provider linkage is the account's only
// way to sign in. Such accounts cannot change or verify a local password.
func (a *Account) IsExternalOnly() bool {
	return !a.HasLocalPassword() && a.HasExternalIdentity()
}

// IsAdmin reports whether the account may use the admin back office.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

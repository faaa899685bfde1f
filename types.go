package authcore

import (
	"context"

	"github.com/adminkit/authcore/permission"
)

// Identity is the minimal payload embedded in every issued token.
// Immutable once issued; session checks compare against the currently
// authoritative identity.
type Identity struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
}

// TokenPair is one issued access/refresh pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Credentials is the read-only credential record owned by the external
// store.
type Credentials struct {
	ID           int64
	UserName     string
	PasswordHash string
	Disabled     bool
}

// UserInfo is the resolved profile returned by [Engine.UserInfo].
type UserInfo struct {
	DisplayName string                 `json:"displayName"`
	Avatar      string                 `json:"avatar"`
	Roles       []string               `json:"roles"`
	Permissions []string               `json:"permissions"`
	Menus       []*permission.MenuNode `json:"menus"`
}

// CredentialStore is the narrow contract the engine consumes from the
// surrounding CRUD layer. Implementations must be safe for concurrent use.
type CredentialStore interface {
	// FindCredentials returns the credential record for userName, or
	// (nil, nil) when no such user exists.
	FindCredentials(ctx context.Context, userName string) (*Credentials, error)

	// FindUserPermissionRows returns the flattened (role, permission) rows
	// reachable through the user's enabled roles, each row repeating the
	// user's profile fields. An empty result means the user is absent or
	// fully disabled. An active user with no reachable permission nodes
	// yields a single row carrying user fields only (row ID 0).
	FindUserPermissionRows(ctx context.Context, userID int64) ([]permission.Row, error)
}

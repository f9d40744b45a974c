package service

import (
	"context"

	domainauth "github.com/target/blogger-api/internal/domain/auth"
)

// AuthKind discriminates the outcome of an authentication or authorization check.
type AuthKind int

const (
	// AuthOK means the credential is valid and, for Authorize, carries the permission.
	AuthOK AuthKind = iota
	// AuthUnauthorized means the credential is missing, invalid, expired or has an unknown role.
	AuthUnauthorized
	// AuthForbidden means the credential is valid but lacks the required permission.
	AuthForbidden
)

func (k AuthKind) String() string {
	switch k {
	case AuthOK:
		return "ok"
	case AuthUnauthorized:
		return "unauthorized"
	case AuthForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Reasons reported in AuthResult.Reason.
const (
	ReasonNoToken      = "Unauthorized - No token provided"
	ReasonInvalidToken = "Unauthorized - Invalid or expired token"
	ReasonInvalidRole  = "Unauthorized - Invalid role"
)

// AuthResult is the outcome of Authenticate or Authorize. Claims is set only when Kind is AuthOK.
type AuthResult struct {
	Kind     AuthKind
	Claims   *domainauth.Claims
	Reason   string
	Required domainauth.Permission
}

// OK reports whether the check passed.
func (r AuthResult) OK() bool { return r.Kind == AuthOK && r.Claims != nil }

// SessionVerifier verifies session credentials.
type SessionVerifier interface {
	VerifySessionToken(ctx context.Context, token string) (*domainauth.Claims, bool)
}

// Authorizer gates requests on a session credential and the static role table.
type Authorizer struct {
	tokens SessionVerifier
}

// NewAuthorizer constructs an Authorizer.
func NewAuthorizer(tokens SessionVerifier) *Authorizer {
	return &Authorizer{tokens: tokens}
}

// Authenticate verifies credential and checks its role is one of admin, editor or reader.
func (a *Authorizer) Authenticate(ctx context.Context, credential string) AuthResult {
	if credential == "" {
		return AuthResult{Kind: AuthUnauthorized, Reason: ReasonNoToken}
	}
	claims, ok := a.tokens.VerifySessionToken(ctx, credential)
	if !ok {
		return AuthResult{Kind: AuthUnauthorized, Reason: ReasonInvalidToken}
	}
	if !claims.Role.Valid() {
		return AuthResult{Kind: AuthUnauthorized, Reason: ReasonInvalidRole}
	}
	return AuthResult{Kind: AuthOK, Claims: claims}
}

// Authorize authenticates credential and then requires perm.
func (a *Authorizer) Authorize(ctx context.Context, credential string, perm domainauth.Permission) AuthResult {
	res := a.Authenticate(ctx, credential)
	if res.Kind != AuthOK {
		res.Required = perm
		return res
	}
	if !domainauth.HasPermission(res.Claims.Role, perm) {
		return AuthResult{
			Kind:     AuthForbidden,
			Reason:   "You don't have permission to perform this action. Required: " + string(perm),
			Required: perm,
		}
	}
	res.Required = perm
	return res
}

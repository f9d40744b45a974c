package testutil

import (
	"fmt"
	"sync/atomic"

	domainauth "github.com/target/blogger-api/internal/domain/auth"
	"github.com/target/blogger-api/internal/domain/model"
)

//nolint:gochecknoglobals // sequence for unique fixture emails
var userSeq atomic.Int64

// UserBuilder provides a fluent interface for building NewUser fixtures.
type UserBuilder struct {
	u domainauth.NewUser
}

// NewUserFixture returns a builder with a unique email and a placeholder hash.
func NewUserFixture() *UserBuilder {
	n := userSeq.Add(1)
	return &UserBuilder{u: domainauth.NewUser{
		Email:        fmt.Sprintf("user%d@example.com", n),
		Name:         fmt.Sprintf("User %d", n),
		PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceholderplacehol",
	}}
}

// WithEmail sets the email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.u.Email = email
	return b
}

// WithName sets the display name.
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.u.Name = name
	return b
}

// WithRole sets the role.
func (b *UserBuilder) WithRole(role domainauth.Role) *UserBuilder {
	b.u.Role = role
	return b
}

// WithHash sets the password hash.
func (b *UserBuilder) WithHash(hash string) *UserBuilder {
	b.u.PasswordHash = hash
	return b
}

// Build returns the assembled NewUser.
func (b *UserBuilder) Build() domainauth.NewUser {
	return b.u
}

// NewCheckin returns a valid check-in request for userID.
func NewCheckin(userID string, mood model.Mood, stress int) *model.CreateWellnessRequest {
	return &model.CreateWellnessRequest{UserID: userID, Mood: mood, Stress: IntPtr(stress)}
}

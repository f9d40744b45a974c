// Package devseed loads development accounts and sample wellness check-ins.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/blogger-api/config"
	"github.com/target/blogger-api/internal/core"
	"github.com/target/blogger-api/internal/data"
	domainauth "github.com/target/blogger-api/internal/domain/auth"
	"github.com/target/blogger-api/internal/domain/model"
	apperrors "github.com/target/blogger-api/internal/errors"
	"github.com/target/blogger-api/internal/service"
)

// DevPassword is the password given to every seeded account.
const DevPassword = "DevPassw0rd!"

// Services bundles the dependencies needed for development seeding.
type Services struct {
	Users     core.UserRepository
	History   core.PasswordHistoryRepository
	Wellness  core.WellnessRepository
	Passwords *service.PasswordService
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	history := data.NewPasswordHistoryRepo(db)
	return Services{
		Users:    data.NewUserRepo(db),
		History:  history,
		Wellness: data.NewWellnessRepo(db),
		Passwords: service.NewPasswordService(service.PasswordServiceOptions{
			Hasher:       service.NewBcryptHasher(service.BcryptHasherOptions{Cost: config.MinBcryptCost}),
			History:      history,
			Requirements: domainauth.DefaultPasswordRequirements(),
		}),
	}
}

type accountSeed struct {
	Email string
	Name  string
	Role  domainauth.Role
}

func defaultAccounts() []accountSeed {
	return []accountSeed{
		{Email: "admin@blogger.local", Name: "Dev Admin", Role: domainauth.RoleAdmin},
		{Email: "editor@blogger.local", Name: "Dev Editor", Role: domainauth.RoleEditor},
		{Email: "reader@blogger.local", Name: "Dev Reader", Role: domainauth.RoleReader},
	}
}

type checkinSeed struct {
	Mood   model.Mood
	Stress int
	Notes  string
}

func defaultCheckins() []checkinSeed {
	return []checkinSeed{
		{Mood: model.MoodGood, Stress: 3, Notes: "Shipped the draft"},
		{Mood: model.MoodOkay, Stress: 5},
		{Mood: model.MoodLow, Stress: 7, Notes: "Deadline week"},
	}
}

// Run executes the development seeding workflow. It is idempotent: existing
// accounts keep their password and only accounts without check-ins get samples.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	failures := 0
	for _, a := range defaultAccounts() {
		user, err := ensureAccount(ctx, svcs, a)
		if err != nil {
			logger.WarnContext(ctx, "failed to seed account", "email", a.Email, "error", err)
			failures++
			continue
		}
		added, err := ensureCheckins(ctx, svcs.Wellness, user.ID)
		if err != nil {
			logger.WarnContext(ctx, "failed to seed wellness check-ins", "email", a.Email, "error", err)
			failures++
			continue
		}
		logger.InfoContext(ctx, "seeded account", "email", user.Email, "role", user.Role, "checkins_added", added)
	}

	if failures > 0 {
		return fmt.Errorf("seeding finished with %d failure(s)", failures)
	}
	return nil
}

func ensureAccount(ctx context.Context, svcs Services, a accountSeed) (*domainauth.User, error) {
	existing, err := svcs.Users.GetByEmail(ctx, a.Email)
	switch {
	case err == nil:
		if existing.Role == a.Role {
			return existing, nil
		}
		return svcs.Users.UpdateRole(ctx, existing.ID, a.Role)
	case !apperrors.IsNotFound(err):
		return nil, fmt.Errorf("lookup %s: %w", a.Email, err)
	}

	hash, err := svcs.Passwords.HashPassword(ctx, DevPassword)
	if err != nil {
		return nil, err
	}
	user, err := svcs.Users.Create(ctx, domainauth.NewUser{
		Email:        a.Email,
		Name:         a.Name,
		PasswordHash: hash,
		Role:         a.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", a.Email, err)
	}
	if err := svcs.Passwords.SavePasswordHistory(ctx, user.ID, hash); err != nil {
		return nil, fmt.Errorf("record password history for %s: %w", a.Email, err)
	}
	return user, nil
}

func ensureCheckins(ctx context.Context, repo core.WellnessRepository, userID string) (int, error) {
	if repo == nil {
		return 0, errors.New("wellness repository is required")
	}
	n, err := repo.CountByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	added := 0
	for _, c := range defaultCheckins() {
		req := &model.CreateWellnessRequest{UserID: userID, Mood: c.Mood, Stress: intPtr(c.Stress)}
		if c.Notes != "" {
			req.Notes = stringPtr(c.Notes)
		}
		if _, err := repo.Create(ctx, req); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func stringPtr(s string) *string { return &s }
func intPtr(i int) *int          { return &i }

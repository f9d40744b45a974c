// Package mocks provides mock implementations for testing the blogger API services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository and port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	mockRepo := mocks.NewMockUserRepository(ctrl)
//	mockRepo.EXPECT().GetByEmail(gomock.Any(), "a@x.com").Return(user, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/target/blogger-api/internal/core UserRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=password_history_repository_mock.go github.com/target/blogger-api/internal/core PasswordHistoryRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=wellness_repository_mock.go github.com/target/blogger-api/internal/core WellnessRepository

// Port mocks used by the auth service tests.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=mailer_mock.go github.com/target/blogger-api/internal/ports Mailer
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_denylist_mock.go github.com/target/blogger-api/internal/ports TokenDenylist

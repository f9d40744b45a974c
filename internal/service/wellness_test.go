package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/blogger-api/internal/core"
	domainauth "github.com/target/blogger-api/internal/domain/auth"
	"github.com/target/blogger-api/internal/domain/model"
	apperrors "github.com/target/blogger-api/internal/errors"
	"github.com/target/blogger-api/internal/mocks"
	authmocks "github.com/target/blogger-api/internal/mocks/auth"
)

func intPtr(v int) *int { return &v }

func TestWellnessService_ListOwnIsScoped(t *testing.T) {
	repo := authmocks.NewMemoryWellnessRepository()
	svc := NewWellnessService(WellnessServiceOptions{Repo: repo, Users: authmocks.NewMemoryUserRepository()})
	ctx := context.Background()

	for _, uid := range []string{"u1", "u2", "u1", "u1"} {
		_, err := svc.Create(ctx, &model.CreateWellnessRequest{UserID: uid, Mood: model.MoodGood, Stress: intPtr(4)})
		require.NoError(t, err)
	}

	page, err := svc.ListOwn(ctx, model.WellnessListOptions{UserID: "u1", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 2)
	for _, c := range page.Items {
		assert.Equal(t, "u1", c.UserID)
	}
	assert.True(t, page.Items[0].CreatedAt.After(page.Items[1].CreatedAt), "newest first")

	page, err = svc.ListOwn(ctx, model.WellnessListOptions{UserID: "u2", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	_, err = svc.ListOwn(ctx, model.WellnessListOptions{Limit: 10})
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestWellnessService_CreateValidation(t *testing.T) {
	svc := NewWellnessService(WellnessServiceOptions{Repo: authmocks.NewMemoryWellnessRepository()})

	_, err := svc.Create(context.Background(), &model.CreateWellnessRequest{UserID: "u1", Mood: "ecstatic"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Create(context.Background(), nil)
	assert.True(t, apperrors.IsValidation(err))
}

func TestWellnessService_Aggregate(t *testing.T) {
	repo := authmocks.NewMemoryWellnessRepository()
	users := authmocks.NewMemoryUserRepository()
	svc := NewWellnessService(WellnessServiceOptions{Repo: repo, Users: users})
	ctx := context.Background()

	var ids []string
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		u, err := users.Create(ctx, domainauth.NewUser{Email: email, Name: "n", PasswordHash: "h"})
		require.NoError(t, err)
		ids = append(ids, u.ID)
	}
	checkins := []struct {
		uid    string
		mood   model.Mood
		stress int
	}{
		{ids[0], model.MoodGood, 3},
		{ids[0], model.MoodLow, 8},
		{ids[1], model.MoodGood, 4},
	}
	for _, c := range checkins {
		_, err := svc.Create(ctx, &model.CreateWellnessRequest{UserID: c.uid, Mood: c.mood, Stress: intPtr(c.stress)})
		require.NoError(t, err)
	}

	agg, err := svc.Aggregate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, agg.TotalCheckins)
	assert.InDelta(t, 5.0, agg.AvgStress, 0.001)
	assert.Equal(t, 3, agg.TotalUsers)
	assert.Equal(t, 2, agg.UsersWithCheckins)
	assert.Equal(t, 67, agg.ParticipationRate)
	assert.Equal(t, 2, agg.MoodDistribution[model.MoodGood])
	assert.Equal(t, 1, agg.MoodDistribution[model.MoodLow])
	assert.Equal(t, 0, agg.MoodDistribution[model.MoodExcellent])
	assert.Len(t, agg.MoodDistribution, len(model.Moods()))
}

func TestWellnessService_AggregateEmpty(t *testing.T) {
	svc := NewWellnessService(WellnessServiceOptions{
		Repo:  authmocks.NewMemoryWellnessRepository(),
		Users: authmocks.NewMemoryUserRepository(),
	})
	agg, err := svc.Aggregate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, agg.ParticipationRate)
	assert.Zero(t, agg.AvgStress)
}

func TestWellnessService_AggregateError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockWellnessRepository(ctrl)
	users := mocks.NewMockUserRepository(ctrl)
	boom := errors.New("db down")

	repo.EXPECT().Stats(gomock.Any()).Return(core.WellnessStats{}, boom)
	repo.EXPECT().MoodDistribution(gomock.Any()).Return(nil, nil).AnyTimes()
	users.EXPECT().Count(gomock.Any()).Return(0, nil).AnyTimes()

	svc := NewWellnessService(WellnessServiceOptions{Repo: repo, Users: users})
	_, err := svc.Aggregate(context.Background())
	require.ErrorIs(t, err, boom)
}

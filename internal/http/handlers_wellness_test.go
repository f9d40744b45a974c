package httpx

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/blogger-api/internal/domain/auth"
	"github.com/target/blogger-api/internal/domain/model"
)

func TestWellnessCreate(t *testing.T) {
	f := newAPIFixture(t)
	userID, tok := f.signup(t, "well@example.com")

	t.Run("defaults stress and binds caller", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/wellness", map[string]any{"mood": "Good", "notes": "  fine  "}, requestOpts{token: tok})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var body struct {
			Checkin model.WellnessCheckin `json:"checkin"`
		}
		decodeBody(t, rec, &body)
		assert.Equal(t, userID, body.Checkin.UserID)
		assert.Equal(t, model.MoodGood, body.Checkin.Mood)
		assert.Equal(t, model.DefaultStressLevel, body.Checkin.Stress)
		require.NotNil(t, body.Checkin.Notes)
		assert.Equal(t, "fine", *body.Checkin.Notes)
	})

	t.Run("body cannot pick the owner", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/wellness", `{"mood":"good","userId":"someone-else"}`, requestOpts{token: tok})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_json", decodeError(t, rec).Error)
	})

	invalid := []struct {
		name string
		body map[string]any
	}{
		{name: "unknown mood", body: map[string]any{"mood": "ecstatic"}},
		{name: "stress too high", body: map[string]any{"mood": "low", "stress": 11}},
		{name: "stress too low", body: map[string]any{"mood": "low", "stress": 0}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/wellness", tt.body, requestOpts{token: tok})
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "validation", decodeError(t, rec).Error)
		})
	}

	t.Run("requires a session", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/wellness", map[string]any{"mood": "good"}, requestOpts{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestWellnessList_OnlyOwnRecords(t *testing.T) {
	f := newAPIFixture(t)
	aliceID, alice := f.signup(t, "alice@example.com")
	_, bob := f.signup(t, "bob@example.com")

	for _, mood := range []string{"good", "okay", "low"} {
		rec := f.do(t, http.MethodPost, "/api/wellness", map[string]any{"mood": mood, "stress": 4}, requestOpts{token: alice})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec := f.do(t, http.MethodPost, "/api/wellness", map[string]any{"mood": "difficult"}, requestOpts{token: bob})
	require.Equal(t, http.StatusCreated, rec.Code)

	list := f.do(t, http.MethodGet, "/api/wellness?page=1&limit=2", nil, requestOpts{token: alice})
	require.Equal(t, http.StatusOK, list.Code, list.Body.String())

	var body struct {
		Wellness   []model.WellnessCheckin `json:"wellness"`
		Pagination Pagination              `json:"pagination"`
	}
	decodeBody(t, list, &body)
	assert.Len(t, body.Wellness, 2)
	for _, c := range body.Wellness {
		assert.Equal(t, aliceID, c.UserID)
	}
	assert.Equal(t, Pagination{Page: 1, Limit: 2, Total: 3, TotalPages: 2}, body.Pagination)

	page2 := f.do(t, http.MethodGet, "/api/wellness?page=2&limit=2", nil, requestOpts{token: alice})
	decodeBody(t, page2, &body)
	assert.Len(t, body.Wellness, 1)
}

func TestWellnessList_HugePageIsClamped(t *testing.T) {
	f := newAPIFixture(t)
	_, tok := f.signup(t, "pager@example.com")
	rec := f.do(t, http.MethodPost, "/api/wellness", map[string]any{"mood": "good"}, requestOpts{token: tok})
	require.Equal(t, http.StatusCreated, rec.Code)

	list := f.do(t, http.MethodGet, "/api/wellness?page=9223372036854775807&limit=100", nil, requestOpts{token: tok})
	require.Equal(t, http.StatusOK, list.Code, list.Body.String())

	var body struct {
		Wellness   []model.WellnessCheckin `json:"wellness"`
		Pagination Pagination              `json:"pagination"`
	}
	decodeBody(t, list, &body)
	assert.Empty(t, body.Wellness)
	assert.Equal(t, MaxPage(maxWellnessLimit), body.Pagination.Page)
	assert.Equal(t, 1, body.Pagination.Total)
}

func TestWellnessList_EmptyIsArray(t *testing.T) {
	f := newAPIFixture(t)
	_, tok := f.signup(t, "empty@example.com")

	rec := f.do(t, http.MethodGet, "/api/wellness", nil, requestOpts{token: tok})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"wellness":[],"pagination":{"page":1,"limit":10,"total":0,"totalPages":0}}`, rec.Body.String())
}

func TestWellnessAggregate(t *testing.T) {
	f := newAPIFixture(t)
	_, reader := f.signup(t, "r1@example.com")
	f.signup(t, "r2@example.com")
	_, admin := f.tokenAs(t, "boss@example.com", domainauth.RoleAdmin)

	for _, b := range []map[string]any{
		{"mood": "good", "stress": 2},
		{"mood": "good", "stress": 4},
		{"mood": "low", "stress": 9},
	} {
		rec := f.do(t, http.MethodPost, "/api/wellness", b, requestOpts{token: reader})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := f.do(t, http.MethodGet, "/api/wellness/aggregate", nil, requestOpts{token: admin})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var agg model.WellnessAggregate
	decodeBody(t, rec, &agg)
	assert.Equal(t, 3, agg.TotalCheckins)
	assert.InDelta(t, 5.0, agg.AvgStress, 0.001)
	assert.Equal(t, 3, agg.TotalUsers)
	assert.Equal(t, 1, agg.UsersWithCheckins)
	assert.Equal(t, 33, agg.ParticipationRate)
	assert.Equal(t, 2, agg.MoodDistribution[model.MoodGood])
	assert.Equal(t, 1, agg.MoodDistribution[model.MoodLow])
	assert.Equal(t, 0, agg.MoodDistribution[model.MoodExcellent])
	assert.NotContains(t, rec.Body.String(), "userId")
}

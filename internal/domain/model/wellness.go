//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxWellnessNotesLen = 2000
	minStressLevel      = 1
	maxStressLevel      = 10
	// DefaultStressLevel is used when a check-in omits stress.
	DefaultStressLevel = 5
)

// Mood is a self-reported wellness mood.
type Mood string

const (
	MoodExcellent Mood = "excellent"
	MoodGood      Mood = "good"
	MoodOkay      Mood = "okay"
	MoodLow       Mood = "low"
	MoodDifficult Mood = "difficult"
)

// Moods returns every supported mood, best first.
func Moods() []Mood {
	return []Mood{MoodExcellent, MoodGood, MoodOkay, MoodLow, MoodDifficult}
}

// Valid reports whether the mood is supported.
func (m Mood) Valid() bool {
	switch m {
	case MoodExcellent, MoodGood, MoodOkay, MoodLow, MoodDifficult:
		return true
	default:
		return false
	}
}

// WellnessCheckin is a private wellness record. Only its owner may read it.
type WellnessCheckin struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	Mood      Mood      `json:"mood"      db:"mood"`
	Stress    int       `json:"stress"    db:"stress"`
	Notes     *string   `json:"notes"     db:"notes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CreateWellnessRequest represents parameters to record a check-in.
// UserID is taken from the authenticated caller, never from the body.
type CreateWellnessRequest struct {
	UserID string  `json:"-"`
	Mood   Mood    `json:"mood"`
	Stress *int    `json:"stress,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// Validate validates and normalizes CreateWellnessRequest.
func (r *CreateWellnessRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	r.Mood = Mood(strings.ToLower(strings.TrimSpace(string(r.Mood))))
	if !r.Mood.Valid() {
		return fmt.Errorf("mood must be one of: %s", joinMoods())
	}
	if r.Stress == nil {
		s := DefaultStressLevel
		r.Stress = &s
	}
	if *r.Stress < minStressLevel || *r.Stress > maxStressLevel {
		return fmt.Errorf("stress must be between %d and %d", minStressLevel, maxStressLevel)
	}
	if r.Notes != nil {
		n := strings.TrimSpace(*r.Notes)
		if utf8.RuneCountInString(n) > maxWellnessNotesLen {
			return fmt.Errorf("notes cannot exceed %d characters", maxWellnessNotesLen)
		}
		if n == "" {
			r.Notes = nil
		} else {
			r.Notes = &n
		}
	}
	return nil
}

func joinMoods() string {
	moods := Moods()
	parts := make([]string, len(moods))
	for i, m := range moods {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}

// WellnessListOptions controls paging for a user's check-ins.
type WellnessListOptions struct {
	UserID string
	Limit  int
	Offset int
}

// MoodCount is one bucket of the mood distribution.
type MoodCount struct {
	Mood  Mood `json:"mood"  db:"mood"`
	Count int  `json:"count" db:"count"`
}

// WellnessAggregate is the anonymized organisation-wide wellness summary.
type WellnessAggregate struct {
	TotalCheckins     int          `json:"totalCheckins"`
	AvgStress         float64      `json:"avgStress"`
	MoodDistribution  map[Mood]int `json:"moodDistribution"`
	ParticipationRate int          `json:"participationRate"`
	TotalUsers        int          `json:"totalUsers"`
	UsersWithCheckins int          `json:"usersWithCheckins"`
}

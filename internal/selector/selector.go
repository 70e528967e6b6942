// Package selector scores candidate interview slots and picks the best one.
package selector

import (
	"time"

	"grantdesk/internal/model"
)

// Score bonuses. All bonuses are independent and cumulative; higher wins.
const (
	bonusMorning       = 10 // slot time in [09:00, 12:00)
	bonusSoon          = 15 // 0-3 calendar days from now
	bonusThisWeek      = 10 // 4-7 calendar days from now
	bonusWeekday       = 5  // Monday through Friday
	bonusPreferredTime = 20 // exact preferred time match
	bonusPreferredDate = 25 // exact preferred date match
	bonusInPerson      = 5  // in-person slot for an in-person-favoring category
)

// Preferences are caller-supplied constraints for slot selection.
// Zero values mean "no constraint".
type Preferences struct {
	Type          model.InterviewType
	InterviewerID string
	PreferredTime *model.TimeOfDay
	PreferredDate *model.Date
}

// ApplicationContext is the read-only application view used by scoring.
type ApplicationContext interface {
	CanProceedToInterview() bool
	Category() int64
}

// Policy maps application categories to interview-type bias. This is
// business policy and comes from configuration, not a compiled-in constant.
type Policy struct {
	InPersonCategoryIDs []int64
}

// FavorsInPerson reports whether the category prefers in-person interviews.
func (p Policy) FavorsInPerson(categoryID int64) bool {
	for _, id := range p.InPersonCategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

// Selector implements scored slot selection.
type Selector struct {
	policy Policy
}

// New creates a selector with the given policy.
func New(policy Policy) *Selector {
	return &Selector{policy: policy}
}

// SelectBest scores each candidate and returns a copy of the best one with
// its score set, or nil when no candidate survives. Candidates dated before
// now's calendar day are skipped: the grid never emits past dates, but the
// selector must not depend on that. Ties keep the earliest candidate, so
// selection is deterministic for a given input order.
func (s *Selector) SelectBest(now time.Time, candidates []model.InterviewSlot, app ApplicationContext, prefs Preferences) *model.InterviewSlot {
	today := model.DateOf(now)

	var best *model.InterviewSlot
	bestScore := -1
	for i := range candidates {
		slot := candidates[i]
		if slot.Date.Before(today) {
			continue
		}
		score := s.score(today, slot, app, prefs)
		if score > bestScore {
			chosen := slot
			chosen.Score = score
			best = &chosen
			bestScore = score
		}
	}
	return best
}

func (s *Selector) score(today model.Date, slot model.InterviewSlot, app ApplicationContext, prefs Preferences) int {
	score := 0

	if slot.Time.Hour >= 9 && slot.Time.Hour < 12 {
		score += bonusMorning
	}

	days := today.DaysUntil(slot.Date)
	switch {
	case days >= 0 && days <= 3:
		score += bonusSoon
	case days >= 4 && days <= 7:
		score += bonusThisWeek
	}

	if !slot.Date.IsWeekend() {
		score += bonusWeekday
	}

	if prefs.PreferredTime != nil && *prefs.PreferredTime == slot.Time {
		score += bonusPreferredTime
	}
	if prefs.PreferredDate != nil && *prefs.PreferredDate == slot.Date {
		score += bonusPreferredDate
	}

	if slot.Type == model.TypeInPerson && app != nil && s.policy.FavorsInPerson(app.Category()) {
		score += bonusInPerson
	}

	return score
}

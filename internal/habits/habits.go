// Package habits is the habit streak and completion engine.
//
// Every function here is pure: it takes a habit by value and returns a new
// one whose slices are never shared with the input, so callers can replace
// the habit in their collection and compare old and new states safely.
package habits

import (
	"sort"
	"time"

	"dailyfocus/internal/datekey"
	"dailyfocus/internal/storage"
	"dailyfocus/internal/validation"
)

// Icons offered when creating a habit.
var Icons = []string{"💧", "🏃", "📚", "🧘", "💪", "🍎", "😴", "✍️", "🎯", "🌱", "🎨", "🎵"}

// Colors offered when creating a habit.
var Colors = []string{"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6", "#EC4899", "#06B6D4", "#84CC16"}

// NewHabit is the input for New.
type NewHabit struct {
	Name   string `json:"name" validate:"required,max=60"`
	Icon   string `json:"icon" validate:"max=12"`
	Color  string `json:"color" validate:"omitempty,hexcolor"`
	Target int    `json:"target" validate:"min=1,max=20"`
}

// Edit changes display metadata. Nil fields are left alone.
type Edit struct {
	Name   *string
	Icon   *string
	Color  *string
	Target *int
}

// New validates in and returns a habit with no completions.
func New(in NewHabit, id string, now time.Time) (storage.Habit, error) {
	in.Name = validation.SanitizeLine(in.Name)
	in.Icon = validation.SanitizeLine(in.Icon)
	if in.Target == 0 {
		in.Target = 1
	}
	if in.Icon == "" {
		in.Icon = Icons[0]
	}
	if in.Color == "" {
		in.Color = Colors[0]
	}
	if err := validation.Struct(in); err != nil {
		return storage.Habit{}, err
	}

	return storage.Habit{
		ID:             id,
		Name:           in.Name,
		Color:          in.Color,
		Icon:           in.Icon,
		Target:         in.Target,
		CompletedDates: []string{},
		CreatedAt:      now,
	}, nil
}

// Apply returns h with the edit applied. Completion history is untouched.
func Apply(h storage.Habit, e Edit) (storage.Habit, error) {
	in := NewHabit{Name: h.Name, Icon: h.Icon, Color: h.Color, Target: h.Target}
	if e.Name != nil {
		in.Name = validation.SanitizeLine(*e.Name)
	}
	if e.Icon != nil {
		in.Icon = validation.SanitizeLine(*e.Icon)
	}
	if e.Color != nil {
		in.Color = *e.Color
	}
	if e.Target != nil {
		in.Target = *e.Target
	}
	if err := validation.Struct(in); err != nil {
		return h, err
	}

	out := clone(h)
	out.Name, out.Icon, out.Color, out.Target = in.Name, in.Icon, in.Color, in.Target
	return out, nil
}

// ToggleCompletion flips dateKey in the completion set and recomputes both
// streaks as of todayKey. It is total: any key string and any habit state
// produce a result.
func ToggleCompletion(h storage.Habit, dateKey, todayKey string) storage.Habit {
	out := clone(h)

	idx := sort.SearchStrings(out.CompletedDates, dateKey)
	if idx < len(out.CompletedDates) && out.CompletedDates[idx] == dateKey {
		out.CompletedDates = append(out.CompletedDates[:idx], out.CompletedDates[idx+1:]...)
	} else {
		out.CompletedDates = append(out.CompletedDates, "")
		copy(out.CompletedDates[idx+1:], out.CompletedDates[idx:])
		out.CompletedDates[idx] = dateKey
	}

	return refresh(out, todayKey)
}

// Recompute refreshes the streaks as of todayKey without changing the
// completion set. Used when the day rolls over.
func Recompute(h storage.Habit, todayKey string) storage.Habit {
	return refresh(clone(h), todayKey)
}

func refresh(h storage.Habit, todayKey string) storage.Habit {
	h.CurrentStreak = CurrentStreak(h.CompletedDates, todayKey)
	if h.CurrentStreak > h.LongestStreak {
		h.LongestStreak = h.CurrentStreak
	}
	return h
}

// CurrentStreak counts consecutive days present in dates, walking back from
// todayKey. A missing today means a streak of zero.
//
// The walk is bounded by len(dates): a run can never be longer than the set
// it is drawn from, so old habits cost O(n) regardless of their age.
func CurrentStreak(dates []string, todayKey string) int {
	if !datekey.Valid(todayKey) {
		return 0
	}
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}

	streak := 0
	day := todayKey
	for streak < len(set) {
		if _, ok := set[day]; !ok {
			break
		}
		streak++
		day = datekey.Prev(day)
	}
	return streak
}

// IsCompletedOn reports whether dateKey is in the completion set.
func IsCompletedOn(h storage.Habit, dateKey string) bool {
	idx := sort.SearchStrings(h.CompletedDates, dateKey)
	return idx < len(h.CompletedDates) && h.CompletedDates[idx] == dateKey
}

// CompletionProgress returns the share of the daily target met on dateKey,
// in percent, clamped to [0, 100]. A non-positive target counts as 1.
func CompletionProgress(h storage.Habit, dateKey string) float64 {
	count := 0
	for _, d := range h.CompletedDates {
		if d == dateKey {
			count++
		}
	}

	target := h.Target
	if target < 1 {
		target = 1
	}
	pct := float64(count) / float64(target) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// Week returns the last 7 days ending at todayKey, oldest first.
func Week(h storage.Habit, todayKey string) []bool {
	week := make([]bool, 7)
	for i := 0; i < 7; i++ {
		week[i] = IsCompletedOn(h, datekey.AddDays(todayKey, i-6))
	}
	return week
}

// Normalize sorts and de-duplicates the completion set. Data written by hand
// or by an older version may break the ordering invariant.
func Normalize(h storage.Habit) storage.Habit {
	out := clone(h)
	sort.Strings(out.CompletedDates)
	uniq := out.CompletedDates[:0]
	for _, d := range out.CompletedDates {
		if len(uniq) > 0 && uniq[len(uniq)-1] == d {
			continue
		}
		uniq = append(uniq, d)
	}
	out.CompletedDates = uniq
	if out.LongestStreak < out.CurrentStreak {
		out.LongestStreak = out.CurrentStreak
	}
	return out
}

func clone(h storage.Habit) storage.Habit {
	dates := make([]string, len(h.CompletedDates))
	copy(dates, h.CompletedDates)
	h.CompletedDates = dates
	return h
}

// Tier buckets a streak length for display.
type Tier int

const (
	TierNone Tier = iota
	TierBuilding
	TierStrong
	TierBlazing
	TierLegendary
)

// StreakTier maps a streak to its display tier: 3, 7, 14 and 30 days are the
// thresholds.
func StreakTier(streak int) Tier {
	switch {
	case streak >= 30:
		return TierLegendary
	case streak >= 14:
		return TierBlazing
	case streak >= 7:
		return TierStrong
	case streak >= 3:
		return TierBuilding
	default:
		return TierNone
	}
}

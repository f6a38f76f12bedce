package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidPlan reports a session description that cannot produce a usable
// plan. Callers typically fall back to Default() so a session can always
// start.
var ErrInvalidPlan = errors.New("invalid session plan")

// DefaultExerciseSeconds is used when an exercise's duration text carries no
// parseable number.
const DefaultExerciseSeconds = 60

// RawExercise is one exercise record as supplied by the owning collaborator.
// Duration is free text ("60 seconds", "about 1 minute, 30 per side").
type RawExercise struct {
	Name        string `json:"name"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
	Benefit     string `json:"benefit"`
}

// RawSession is the wire form of a session description. BreakName is an
// accepted alias for Title used by older generators.
type RawSession struct {
	Title     string        `json:"title"`
	BreakName string        `json:"break_name"`
	Intro     string        `json:"intro"`
	Exercises []RawExercise `json:"exercises"`
}

var durationRE = regexp.MustCompile(`\d+`)

// parseDurationSeconds extracts the first integer token from free-text
// duration. Malformed upstream content must never block a session from
// starting, so anything unparseable (or zero) yields the default.
func parseDurationSeconds(s string) int {
	m := durationRE.FindString(s)
	if m == "" {
		return DefaultExerciseSeconds
	}
	n, err := strconv.Atoi(m)
	if err != nil || n <= 0 {
		return DefaultExerciseSeconds
	}
	return n
}

// FromRaw normalizes a session description into a SessionPlan.
// It fails only when the exercise list is empty.
func FromRaw(raw RawSession) (*SessionPlan, error) {
	if len(raw.Exercises) == 0 {
		return nil, fmt.Errorf("%w: empty exercise list", ErrInvalidPlan)
	}
	title := raw.Title
	if title == "" {
		title = raw.BreakName
	}
	exercises := make([]Exercise, len(raw.Exercises))
	for i, r := range raw.Exercises {
		secs := parseDurationSeconds(r.Duration)
		display := r.Duration
		if display == "" {
			display = fmt.Sprintf("%d seconds", secs)
		}
		exercises[i] = Exercise{
			Name:            r.Name,
			Description:     r.Description,
			Benefit:         r.Benefit,
			DisplayDuration: display,
			DurationSeconds: secs,
		}
	}
	return newSessionPlan(title, raw.Intro, exercises), nil
}

// ParseJSON decodes a session description and normalizes it. Undecodable
// input is reported as ErrInvalidPlan so callers can treat "bad JSON" and
// "empty plan" with the same fallback.
func ParseJSON(data []byte) (*SessionPlan, error) {
	var raw RawSession
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	return FromRaw(raw)
}

// Raw converts a plan back to its wire form, suitable for serving to
// collaborators that construct sessions from it.
func (p *SessionPlan) Raw() RawSession {
	raw := RawSession{
		Title:     p.title,
		Intro:     p.intro,
		Exercises: make([]RawExercise, len(p.exercises)),
	}
	for i, e := range p.exercises {
		raw.Exercises[i] = RawExercise{
			Name:        e.Name,
			Duration:    e.DisplayDuration,
			Description: e.Description,
			Benefit:     e.Benefit,
		}
	}
	return raw
}

package plan

// Exercise is a single timed activity in a session. Immutable once created.
type Exercise struct {
	Name            string
	Description     string
	Benefit         string
	DisplayDuration string
	DurationSeconds int
}

// SessionPlan is an ordered, non-empty sequence of exercises. Totals and
// per-exercise start offsets are computed once at construction and the plan
// is never mutated afterwards, so it is safe to share read-only.
type SessionPlan struct {
	title     string
	intro     string
	exercises []Exercise
	total     int
	offsets   []int
}

func newSessionPlan(title, intro string, exercises []Exercise) *SessionPlan {
	p := &SessionPlan{
		title:     title,
		intro:     intro,
		exercises: exercises,
		offsets:   make([]int, len(exercises)),
	}
	for i, e := range exercises {
		p.offsets[i] = p.total
		p.total += e.DurationSeconds
	}
	return p
}

func (p *SessionPlan) Title() string { return p.title }
func (p *SessionPlan) Intro() string { return p.intro }

// Len returns the number of exercises in the plan.
func (p *SessionPlan) Len() int { return len(p.exercises) }

// TotalSeconds is the sum of all exercise durations.
func (p *SessionPlan) TotalSeconds() int { return p.total }

// Exercise returns the exercise at index i. Panics if i is out of range,
// matching slice semantics; callers index with engine-provided values that
// are always in [0, Len).
func (p *SessionPlan) Exercise(i int) Exercise { return p.exercises[i] }

// Exercises returns a copy of the exercise sequence in execution order.
func (p *SessionPlan) Exercises() []Exercise {
	out := make([]Exercise, len(p.exercises))
	copy(out, p.exercises)
	return out
}

// StartOffset returns the number of seconds of plan time before exercise i.
// StartOffset(Len()) equals TotalSeconds, the boundary past the last exercise.
func (p *SessionPlan) StartOffset(i int) int {
	if i >= len(p.offsets) {
		return p.total
	}
	return p.offsets[i]
}

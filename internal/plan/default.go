package plan

// Built-in desk workout used whenever the owning collaborator supplies no
// session description or an invalid one.
const (
	DefaultTitle = "Workout Break"
	DefaultIntro = "Take a quick break from gaming to refresh your mind and body!"
)

var defaultExercises = []Exercise{
	{
		Name:            "Neck Stretches",
		Description:     "Gently tilt your head side to side and front to back",
		Benefit:         "Relieves neck tension from looking at the screen",
		DisplayDuration: "60 seconds",
		DurationSeconds: 60,
	},
	{
		Name:            "Shoulder Rolls",
		Description:     "Roll your shoulders backward and forward",
		Benefit:         "Reduces shoulder stiffness from keyboard use",
		DisplayDuration: "60 seconds",
		DurationSeconds: 60,
	},
	{
		Name:            "Wrist Stretches",
		Description:     "Extend your arms and gently bend your wrists in all directions",
		Benefit:         "Prevents carpal tunnel and wrist strain",
		DisplayDuration: "60 seconds",
		DurationSeconds: 60,
	},
	{
		Name:            "Eye Relief",
		Description:     "Look away from the screen and focus on objects at different distances",
		Benefit:         "Reduces eye strain and prevents dry eyes",
		DisplayDuration: "60 seconds",
		DurationSeconds: 60,
	},
	{
		Name:            "Standing Side Bends",
		Description:     "Stand up and bend side to side with arms overhead",
		Benefit:         "Stretches your sides and improves posture",
		DisplayDuration: "60 seconds",
		DurationSeconds: 60,
	},
	{
		Name:            "Seated Leg Extensions",
		Description:     "While seated, extend each leg straight out and hold",
		Benefit:         "Improves circulation in your legs",
		DisplayDuration: "60 seconds",
		DurationSeconds: 60,
	},
	{
		Name:            "Desk Push-ups",
		Description:     "Do push-ups against your desk at an angle",
		Benefit:         "Activates chest and arm muscles",
		DisplayDuration: "60 seconds",
		DurationSeconds: 60,
	},
	{
		Name:            "Chair Squats",
		Description:     "Stand up and sit down repeatedly without fully sitting",
		Benefit:         "Strengthens leg muscles and improves circulation",
		DisplayDuration: "60 seconds",
		DurationSeconds: 60,
	},
	{
		Name:            "Deep Breathing",
		Description:     "Take deep breaths, filling your lungs completely and exhaling slowly",
		Benefit:         "Increases oxygen flow and reduces stress",
		DisplayDuration: "60 seconds",
		DurationSeconds: 60,
	},
	{
		Name:            "Final Stretch",
		Description:     "Reach up high, then touch your toes, and finally twist side to side",
		Benefit:         "Full-body stretch to finish your workout",
		DisplayDuration: "60 seconds",
		DurationSeconds: 60,
	},
}

// Default returns the built-in ten exercise desk workout (600 seconds total).
func Default() *SessionPlan {
	exercises := make([]Exercise, len(defaultExercises))
	copy(exercises, defaultExercises)
	return newSessionPlan(DefaultTitle, DefaultIntro, exercises)
}

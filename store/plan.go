package store

// PlanKind is the type of generated plan.
type PlanKind string

const (
	PlanKindMeal    PlanKind = "MEAL"
	PlanKindWorkout PlanKind = "WORKOUT"
)

// Plan is an AI-generated weekly plan. One row per (user, kind); a new
// generation replaces the previous one. Generalized marks plans produced
// without any stored user context.
type Plan struct {
	ID          int32
	UserUID     string
	Kind        PlanKind
	Content     string
	Generalized bool
	CreatedTs   int64
}

type FindPlan struct {
	UserUID string
	Kind    *PlanKind
}

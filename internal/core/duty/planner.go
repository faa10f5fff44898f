package duty

import (
	"time"

	"github.com/example/stargate/internal/core/effects"
)

// Persisted entity names and operations used in transition effects.
const (
	EntityDuty   = "astronaut_duty"
	EntityDetail = "astronaut_detail"

	OpCreate = "create"
	OpUpdate = "update"
	OpClose  = "close"
)

// OpenDutyInput is the person's currently open duty, if any.
type OpenDutyInput struct {
	ID        int64
	StartDate time.Time
}

// DetailInput is the person's existing astronaut summary, if any.
type DetailInput struct {
	ID              int64
	CareerStartDate time.Time
	CareerEndDate   *time.Time
}

// TransitionInput contains the inputs needed to plan a duty transition.
// All values are pre-fetched by the caller - no I/O in the planner.
type TransitionInput struct {
	PersonID  int64
	Rank      string
	DutyTitle string
	StartDate time.Time
	OpenDuty  *OpenDutyInput // nil when the person holds no open duty
	Detail    *DetailInput   // nil before the person's first duty
}

// DutyClosure closes an open duty.
type DutyClosure struct {
	DutyID  int64
	EndDate time.Time
}

// NewDuty is the duty row to insert.
type NewDuty struct {
	PersonID  int64
	Rank      string
	DutyTitle string
	StartDate time.Time
}

// DetailState is the full astronaut summary after the transition.
// ID is zero when the summary is created by this transition.
type DetailState struct {
	ID               int64
	PersonID         int64
	CurrentRank      string
	CurrentDutyTitle string
	CareerStartDate  time.Time
	CareerEndDate    *time.Time
}

// TransitionPlan represents the planned effects for recording a duty.
type TransitionPlan struct {
	Close        *DutyClosure
	Insert       NewDuty
	Detail       DetailState
	CreateDetail bool
	Logs         []effects.LogEffect
}

// Effects returns all effects in execution order: close, insert, summary, logs.
func (p TransitionPlan) Effects() []effects.Effect {
	result := make([]effects.Effect, 0, 2+len(p.Logs))
	insert := effects.PersistEffect{Entity: EntityDuty, Operation: OpCreate, Data: p.Insert}
	if p.Close != nil {
		// The handover closes the open duty before inserting its successor.
		result = append(result, effects.CompositeEffect{Effects: []effects.Effect{
			effects.PersistEffect{Entity: EntityDuty, Operation: OpClose, Data: *p.Close},
			insert,
		}})
	} else {
		result = append(result, insert)
	}

	detailOp := OpUpdate
	if p.CreateDetail {
		detailOp = OpCreate
	}
	result = append(result, effects.PersistEffect{Entity: EntityDetail, Operation: detailOp, Data: p.Detail})

	for _, l := range p.Logs {
		result = append(result, l)
	}
	return result
}

// GenerateTransitionPlan plans the state change for a new duty.
// This is a pure function - all input data must be pre-fetched.
func GenerateTransitionPlan(input TransitionInput) TransitionPlan {
	start := DateOnly(input.StartDate)
	plan := TransitionPlan{
		Insert: NewDuty{
			PersonID:  input.PersonID,
			Rank:      input.Rank,
			DutyTitle: input.DutyTitle,
			StartDate: start,
		},
	}

	if input.OpenDuty != nil {
		plan.Close = &DutyClosure{
			DutyID:  input.OpenDuty.ID,
			EndDate: DayBefore(start),
		}
		plan.Logs = append(plan.Logs, effects.LogEffect{
			Level:   "info",
			Message: "closing open duty",
			Fields: map[string]any{
				"person_id": input.PersonID,
				"duty_id":   input.OpenDuty.ID,
				"end_date":  FormatDate(plan.Close.EndDate),
			},
		})
	}

	if input.Detail == nil {
		plan.CreateDetail = true
		plan.Detail = DetailState{
			PersonID:        input.PersonID,
			CareerStartDate: start,
		}
	} else {
		plan.Detail = DetailState{
			ID:              input.Detail.ID,
			PersonID:        input.PersonID,
			CareerStartDate: DateOnly(input.Detail.CareerStartDate),
			CareerEndDate:   input.Detail.CareerEndDate,
		}
	}
	plan.Detail.CurrentRank = input.Rank
	plan.Detail.CurrentDutyTitle = input.DutyTitle

	if IsRetirement(input.DutyTitle) {
		end := DayBefore(start)
		plan.Detail.CareerEndDate = &end
		plan.Logs = append(plan.Logs, effects.LogEffect{
			Level:   "info",
			Message: "career ended",
			Fields: map[string]any{
				"person_id":       input.PersonID,
				"career_end_date": FormatDate(end),
			},
		})
	}

	return plan
}

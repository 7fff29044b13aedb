// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"time"

	"github.com/AccelByte/extend-cognitive-gate/pkg/plan"
	"github.com/AccelByte/extend-cognitive-gate/pkg/recovery"
)

// CognitiveStates are the four tracked sub-skills, each in [0,100], owned by
// the external skill-tracking service and consumed read-only here.
type CognitiveStates struct {
	AE float64 `json:"ae"` // attention efficiency
	RA float64 `json:"ra"` // reactive accuracy
	CT float64 `json:"ct"` // critical thinking
	IN float64 `json:"in"` // inferential reasoning
}

// S1 is the fast/intuitive skill grouping.
func (c CognitiveStates) S1() float64 {
	return (c.AE + c.RA) / 2
}

// S2 is the deliberate/analytical skill grouping.
func (c CognitiveStates) S2() float64 {
	return (c.CT + c.IN) / 2
}

// MetricSnapshot is the upstream-derived metric set fetched per evaluation.
type MetricSnapshot struct {
	States    CognitiveStates `json:"states"`
	Sharpness float64         `json:"sharpness"`
	Readiness float64         `json:"readiness"`
}

// UserGateState is the per-user state this engine owns: the recovery
// checkpoint, the System-2 consistency accumulator, calibration progress,
// and the plan tier. Skill values live with the skill-tracking service and
// are never duplicated here.
type UserGateState struct {
	Recovery               recovery.State `json:"recovery"`
	ConsistencyAccumulator float64        `json:"consistencyAccumulator"`
	Calibrated             bool           `json:"calibrated"`
	PlanTier               plan.Tier      `json:"planTier"`
}

// NewUserGateState returns the default state for a user with no record yet.
func NewUserGateState() *UserGateState {
	return &UserGateState{
		ConsistencyAccumulator: 50,
		PlanTier:               plan.TierBase,
	}
}

// CompletionRecord is one append-only entry in the completion log: a
// finished drill session or content task. Cap counters and RQ windows are
// always recomputed from this log with time-ranged queries, never from a
// cached counter.
type CompletionRecord struct {
	UserID      string    `json:"userId"`
	SystemType  string    `json:"systemType"` // "s1" or "s2"
	SkillRouted string    `json:"skillRouted,omitempty"`
	GameType    string    `json:"gameType,omitempty"`
	ContentType string    `json:"contentType,omitempty"` // book, article, podcast
	CompletedAt time.Time `json:"completedAt"`
	Score       float64   `json:"score"`
}

// IsContentTask reports whether the record is a content completion rather
// than a drill session.
func (r CompletionRecord) IsContentTask() bool {
	return r.ContentType != ""
}

package rq

import (
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// Component weights for the combined RQ score.
	weightS2Core      = 0.50
	weightConsistency = 0.30
	weightPriming     = 0.20

	// NeutralConsistency is returned when too few windowed scores exist.
	NeutralConsistency = 50.0

	// MinConsistencySamples is the minimum number of windowed System-2
	// session scores required before consistency is computed.
	MinConsistencySamples = 5

	// ScoreWindowSize bounds the windowed System-2 score history.
	ScoreWindowSize = 10

	// MaxConsistencySpread is the standard deviation at which the
	// consistency penalty saturates.
	MaxConsistencySpread = 25.0

	// InactivityGraceDays is the grace period before inactivity decay starts.
	InactivityGraceDays = 14

	// InactivityDecayPerWeek is subtracted per full week beyond the grace period.
	InactivityDecayPerWeek = 2.0

	// CoreFloorMargin bounds how far the final RQ may fall below the S2 core.
	CoreFloorMargin = 10.0

	// PrimingWindowDays is how far back content completions count toward priming.
	PrimingWindowDays = 7

	// PrimingRecencyFloor is the minimum recency multiplier (day 7 and beyond).
	PrimingRecencyFloor = 0.30

	// PrimingFullWeightTasks is the number of tasks counted at full weight;
	// tasks beyond it count at half weight.
	PrimingFullWeightTasks = 5
)

// TaskType identifies the kind of completed content task.
type TaskType string

const (
	TaskBook    TaskType = "book"
	TaskArticle TaskType = "article"
	TaskPodcast TaskType = "podcast"
)

// Base priming weights per content type. Books prime deliberate reasoning
// harder than articles, which beat podcasts.
var primingBaseWeights = map[TaskType]float64{
	TaskBook:    20,
	TaskArticle: 12,
	TaskPodcast: 8,
}

// TaskCompletion is one content-completion event within the priming window.
type TaskCompletion struct {
	Type        TaskType  `json:"type"`
	CompletedAt time.Time `json:"completedAt"`
}

// Result carries the combined RQ score and its weighted sub-components for
// reporting surfaces.
type Result struct {
	Score           float64 `json:"score"`
	S2Core          float64 `json:"s2Core"`
	S2Consistency   float64 `json:"s2Consistency"`
	TaskPriming     float64 `json:"taskPriming"`
	InactivityDecay float64 `json:"inactivityDecay"`
	FloorApplied    bool    `json:"floorApplied"`
}

// Calculate computes the Reasoning Quality score from the S2 skill average,
// the windowed System-2 session scores, and recent content completions.
// Pure over its inputs; decay depends only on the provided `now`.
func Calculate(s2 float64, s2Scores []float64, tasks []TaskCompletion, lastS2GameAt, lastTaskAt time.Time, now time.Time) Result {
	core := clamp(s2)
	consistency := Consistency(s2Scores)
	priming := TaskPriming(tasks, now)

	base := weightS2Core*core + weightConsistency*consistency + weightPriming*priming
	decay := inactivityDecay(lastS2GameAt, lastTaskAt, now)
	score := base - decay

	floor := core - CoreFloorMargin
	floorApplied := false
	if score < floor {
		score = floor
		floorApplied = true
	}
	score = clamp(score)

	logrus.Debugf("rq calculated: core=%.2f consistency=%.2f priming=%.2f decay=%.2f score=%.2f",
		core, consistency, priming, decay, score)

	return Result{
		Score:           score,
		S2Core:          core,
		S2Consistency:   consistency,
		TaskPriming:     priming,
		InactivityDecay: decay,
		FloorApplied:    floorApplied,
	}
}

// Consistency maps the spread of the windowed System-2 session scores to a
// 0-100 score. Equal-average histories with lower variance score higher.
// With fewer than MinConsistencySamples scores the neutral fallback applies.
func Consistency(scores []float64) float64 {
	window := scores
	if len(window) > ScoreWindowSize {
		window = window[len(window)-ScoreWindowSize:]
	}
	if len(window) < MinConsistencySamples {
		return NeutralConsistency
	}

	mean := 0.0
	for _, s := range window {
		mean += s
	}
	mean /= float64(len(window))

	variance := 0.0
	for _, s := range window {
		d := s - mean
		variance += d * d
	}
	variance /= float64(len(window))
	stddev := math.Sqrt(variance)

	penalty := stddev / MaxConsistencySpread * 100
	if penalty > 100 {
		penalty = 100
	}

	return clamp(100 - penalty)
}

// TaskPriming scores recent content engagement. Each completion contributes
// its per-type base weight scaled by a linear recency decay (full weight
// today, floored around 30% by day 7). The most recent
// PrimingFullWeightTasks completions count fully; anything beyond counts at
// half weight so a binge cannot saturate the score.
func TaskPriming(tasks []TaskCompletion, now time.Time) float64 {
	cutoff := now.AddDate(0, 0, -PrimingWindowDays)

	var eligible []TaskCompletion
	for _, task := range tasks {
		if task.CompletedAt.After(now) || task.CompletedAt.Before(cutoff) {
			continue
		}
		eligible = append(eligible, task)
	}
	if len(eligible) == 0 {
		return 0
	}

	// Most recent first, so the diminishing-returns cut hits the oldest tasks.
	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].CompletedAt.After(eligible[j].CompletedAt)
	})

	total := 0.0
	for i, task := range eligible {
		base, ok := primingBaseWeights[task.Type]
		if !ok {
			continue
		}

		ageDays := now.Sub(task.CompletedAt).Hours() / 24
		recency := 1 - (ageDays/PrimingWindowDays)*(1-PrimingRecencyFloor)
		if recency < PrimingRecencyFloor {
			recency = PrimingRecencyFloor
		}

		weight := base * recency
		if i >= PrimingFullWeightTasks {
			weight /= 2
		}
		total += weight
	}

	return clamp(total)
}

// inactivityDecay returns the points to subtract for prolonged inactivity.
// Within the grace period the decay is zero; beyond it, every started week
// costs InactivityDecayPerWeek points.
func inactivityDecay(lastS2GameAt, lastTaskAt, now time.Time) float64 {
	last := lastS2GameAt
	if lastTaskAt.After(last) {
		last = lastTaskAt
	}
	if last.IsZero() {
		// Never active: treated as fresh rather than decayed, the score is
		// already dominated by the neutral consistency and zero priming.
		return 0
	}

	days := int(now.Sub(last).Hours() / 24)
	if days <= InactivityGraceDays {
		return 0
	}

	weeksBeyond := (days - InactivityGraceDays + 6) / 7
	return float64(weeksBeyond) * InactivityDecayPerWeek
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

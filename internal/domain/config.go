package domain

import "time"

// GlobalConfig is the tenant-wide configuration attached to the root
// node. Shares are stored normalized (they sum to 1.0). Package size and
// the four shares are "ensure-global": a node-local config can never
// override them.
type GlobalConfig struct {
	ID     uint   `json:"id"`
	UUID   string `json:"uuid"`
	NodeID uint   `json:"node_id"`

	PackageSize int `json:"package_size"`

	TaskShare     float64 `json:"task_share"`
	InfoShare     float64 `json:"info_share"`
	SolutionShare float64 `json:"solution_share"`
	RateShare     float64 `json:"rate_share"`

	TaskPoints        float64 `json:"task_points"`
	TaskCost          float64 `json:"task_cost"`
	TaskMaxPoints     float64 `json:"task_max_points"`
	InfoPoints        float64 `json:"info_points"`
	InfoCost          float64 `json:"info_cost"`
	InfoMaxPoints     float64 `json:"info_max_points"`
	SolutionPoints    float64 `json:"solution_points"`
	SolutionCost      float64 `json:"solution_cost"`
	SolutionMaxPoints float64 `json:"solution_max_points"`
	RatingPoints      float64 `json:"rating_points"`
	RatingCost        float64 `json:"rating_cost"`
	RatingMaxPoints   float64 `json:"rating_max_points"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NodeConfig is a local override attached to a non-root node. Absent
// fields are nil and fall through to the global values. The three share
// fields are kept normalized among themselves on write but are never
// honored at resolve time (shares are ensure-global).
type NodeConfig struct {
	ID     uint   `json:"id"`
	UUID   string `json:"uuid"`
	NodeID uint   `json:"node_id"`

	TaskShare     *float64 `json:"task_share,omitempty"`
	InfoShare     *float64 `json:"info_share,omitempty"`
	SolutionShare *float64 `json:"solution_share,omitempty"`

	TaskPoints        *float64 `json:"task_points,omitempty"`
	TaskCost          *float64 `json:"task_cost,omitempty"`
	TaskMaxPoints     *float64 `json:"task_max_points,omitempty"`
	InfoPoints        *float64 `json:"info_points,omitempty"`
	InfoCost          *float64 `json:"info_cost,omitempty"`
	InfoMaxPoints     *float64 `json:"info_max_points,omitempty"`
	SolutionPoints    *float64 `json:"solution_points,omitempty"`
	SolutionCost      *float64 `json:"solution_cost,omitempty"`
	SolutionMaxPoints *float64 `json:"solution_max_points,omitempty"`
	RatingPoints      *float64 `json:"rating_points,omitempty"`
	RatingCost        *float64 `json:"rating_cost,omitempty"`
	RatingMaxPoints   *float64 `json:"rating_max_points,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectiveConfig is the merge of a global config with an optional
// node-local override, as seen by the engine.
type EffectiveConfig struct {
	PackageSize int `json:"package_size"`

	TaskShare     float64 `json:"task_share"`
	InfoShare     float64 `json:"info_share"`
	SolutionShare float64 `json:"solution_share"`
	RateShare     float64 `json:"rate_share"`

	TaskPoints        float64 `json:"task_points"`
	TaskCost          float64 `json:"task_cost"`
	TaskMaxPoints     float64 `json:"task_max_points"`
	InfoPoints        float64 `json:"info_points"`
	InfoCost          float64 `json:"info_cost"`
	InfoMaxPoints     float64 `json:"info_max_points"`
	SolutionPoints    float64 `json:"solution_points"`
	SolutionCost      float64 `json:"solution_cost"`
	SolutionMaxPoints float64 `json:"solution_max_points"`
	RatingPoints      float64 `json:"rating_points"`
	RatingCost        float64 `json:"rating_cost"`
	RatingMaxPoints   float64 `json:"rating_max_points"`
}

func (c EffectiveConfig) Share(kind ContentKind) float64 {
	switch kind {
	case KindTask:
		return c.TaskShare
	case KindInfo:
		return c.InfoShare
	case KindSolution:
		return c.SolutionShare
	case KindRating:
		return c.RateShare
	}

	return 0
}

func (c EffectiveConfig) Points(kind ContentKind) float64 {
	switch kind {
	case KindTask:
		return c.TaskPoints
	case KindInfo:
		return c.InfoPoints
	case KindSolution:
		return c.SolutionPoints
	case KindRating:
		return c.RatingPoints
	}

	return 0
}

func (c EffectiveConfig) Cost(kind ContentKind) float64 {
	switch kind {
	case KindTask:
		return c.TaskCost
	case KindInfo:
		return c.InfoCost
	case KindSolution:
		return c.SolutionCost
	case KindRating:
		return c.RatingCost
	}

	return 0
}

func (c EffectiveConfig) MaxPoints(kind ContentKind) float64 {
	switch kind {
	case KindTask:
		return c.TaskMaxPoints
	case KindInfo:
		return c.InfoMaxPoints
	case KindSolution:
		return c.SolutionMaxPoints
	case KindRating:
		return c.RatingMaxPoints
	}

	return 0
}

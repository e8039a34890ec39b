package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// Config payloads bind only the fields below; protected fields (ids,
// uuids, timestamps, node linkage) present in an inbound payload are
// dropped by the binding. Shares are percentages (0-100) and are
// normalized on write.

type CreateGlobalConfigRequest struct {
	NodeID      uint `json:"node_id"`
	PackageSize int  `json:"package_size"`

	TaskSharePct     float64 `json:"task_share_pct"`
	InfoSharePct     float64 `json:"info_share_pct"`
	SolutionSharePct float64 `json:"solution_share_pct"`
	RateSharePct     float64 `json:"rate_share_pct"`

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

func (req *CreateGlobalConfigRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.NodeID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.PackageSize, validation.Required, validation.Min(1)),
		validation.Field(&req.TaskSharePct, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&req.InfoSharePct, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&req.SolutionSharePct, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&req.RateSharePct, validation.Min(0.0), validation.Max(100.0)),
	)
}

type PatchGlobalConfigRequest struct {
	PackageSize *int `json:"package_size,omitempty"`

	TaskSharePct     *float64 `json:"task_share_pct,omitempty"`
	InfoSharePct     *float64 `json:"info_share_pct,omitempty"`
	SolutionSharePct *float64 `json:"solution_share_pct,omitempty"`
	RateSharePct     *float64 `json:"rate_share_pct,omitempty"`

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
}

func (req *PatchGlobalConfigRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PackageSize, validation.Min(1)),
		validation.Field(&req.TaskSharePct, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&req.InfoSharePct, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&req.SolutionSharePct, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&req.RateSharePct, validation.Min(0.0), validation.Max(100.0)),
	)
}

type CreateNodeConfigRequest struct {
	TaskSharePct     *float64 `json:"task_share_pct,omitempty"`
	InfoSharePct     *float64 `json:"info_share_pct,omitempty"`
	SolutionSharePct *float64 `json:"solution_share_pct,omitempty"`

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
}

func (req *CreateNodeConfigRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TaskSharePct, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&req.InfoSharePct, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&req.SolutionSharePct, validation.Min(0.0), validation.Max(100.0)),
	)
}

type PatchNodeConfigRequest struct {
	CreateNodeConfigRequest
}

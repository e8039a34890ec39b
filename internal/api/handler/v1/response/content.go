package response

import "github.com/edumesh/contribution-api/internal/domain"

type ContentResponse struct {
	domain.Node

	Kind     string `json:"kind"`
	TargetID uint   `json:"target_id,omitempty"`
	Value    int    `json:"value,omitempty"`
}

func NewContentResponse(c domain.Content) ContentResponse {
	out := ContentResponse{
		Kind: string(c.Kind()),
	}

	switch v := c.(type) {
	case domain.Task:
		out.Node = v.Node
	case domain.Info:
		out.Node = v.Node
	case domain.Solution:
		out.Node = v.Node
	case domain.Rating:
		out.Node = v.Node
		out.TargetID = v.TargetID
		out.Value = v.Value
	}

	return out
}

func NewContentListResponse(contents []domain.Content) []ContentResponse {
	out := make([]ContentResponse, 0, len(contents))
	for _, c := range contents {
		out = append(out, NewContentResponse(c))
	}

	return out
}

// AllocationResponse reports the created content and, for rationed
// participants, the package state after the action.
type AllocationResponse struct {
	Content  ContentResponse     `json:"content"`
	Package  *domain.WorkPackage `json:"package,omitempty"`
	Elevated bool                `json:"elevated,omitempty"`
}

// ContentDetailResponse adds the parent chain (nearest ancestor first)
// to a single content read.
type ContentDetailResponse struct {
	Content     ContentResponse   `json:"content"`
	ParentChain []ContentResponse `json:"parent_chain"`
}

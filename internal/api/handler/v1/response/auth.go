package response

import "github.com/edumesh/contribution-api/internal/domain"

type LoginResponse struct {
	Token       string             `json:"token"`
	Participant domain.Participant `json:"participant"`
}

package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/edumesh/contribution-api/internal/api/handler/v1/response"
	"github.com/edumesh/contribution-api/internal/api/middleware"
	"github.com/edumesh/contribution-api/internal/domain"
)

var (
	errParticipantMissing = errors.New("authenticated participant not found in request context")
	errAdminOnly          = errors.New("this action requires admin privileges")
)

// getParticipantFromContext loads the full participant record for the
// ID the JWT middleware stored in the gin context.
func getParticipantFromContext(ctx *gin.Context, svc ParticipantService) (domain.Participant, *response.Err) {
	raw, ok := ctx.Get(middleware.ParticipantIDKey)
	if !ok {
		return domain.Participant{}, response.ErrTokenInvalid(errParticipantMissing)
	}

	id, ok := raw.(uint)
	if !ok {
		return domain.Participant{}, response.ErrTokenInvalid(errParticipantMissing)
	}

	participant, err := svc.GetParticipant(ctx.Request.Context(), id)
	if err != nil {
		return domain.Participant{}, response.ErrNotFound("participant", "ID", id)
	}

	return participant, nil
}

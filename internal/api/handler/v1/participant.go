package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edumesh/contribution-api/internal/api/handler/v1/response"
	"github.com/edumesh/contribution-api/internal/domain"
	"github.com/edumesh/contribution-api/internal/service"
)

type ParticipantService interface {
	GetParticipant(ctx context.Context, id uint) (domain.Participant, error)
}

type LedgerService interface {
	ComputeBalance(ctx context.Context, participantID uint) (domain.Balance, error)
}

type PrestigeService interface {
	ComputePrestige(ctx context.Context, participantID uint) (float64, error)
}

type WorkPackageService interface {
	Provision(ctx context.Context, participantID uint) (domain.WorkPackage, error)
	Status(ctx context.Context, participantID uint) (domain.WorkPackage, error)
}

var errNotOwnResource = errors.New("participants can only view their own records")

type ParticipantHandler struct {
	svc      ParticipantService
	ledger   LedgerService
	prestige PrestigeService
	packages WorkPackageService
}

func NewParticipantHandler(svc ParticipantService, ledger LedgerService, prestige PrestigeService, packages WorkPackageService) *ParticipantHandler {
	return &ParticipantHandler{
		svc:      svc,
		ledger:   ledger,
		prestige: prestige,
		packages: packages,
	}
}

// resolveParticipantID parses the path ID and checks the requester may
// read that participant's records (self, or any record for admins).
func (h *ParticipantHandler) resolveParticipantID(ctx *gin.Context) (uint, *response.Err) {
	requester, respErr := getParticipantFromContext(ctx, h.svc)
	if respErr != nil {
		return 0, respErr
	}

	raw := ctx.Param("participantID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid participant ID (%v)", raw))
	}

	if uint(id) != requester.ID && !requester.Admin {
		return 0, response.ErrPermissionDenied(errNotOwnResource)
	}

	return uint(id), nil
}

// HandleGetParticipant godoc
// @Summary      Get a participant by ID
// @Tags         participants
// @Produce      json
// @Param        participantID  path      int  true  "participant ID"
// @Success      200  {object}  domain.Participant
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /participants/{participantID} [get]
// @Security     BearerAuth
func (h *ParticipantHandler) HandleGetParticipant(ctx *gin.Context) {
	id, respErr := h.resolveParticipantID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	participant, err := h.svc.GetParticipant(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participant", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleGetParticipant -> h.svc.GetParticipant -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, participant)
}

// HandleGetBalance godoc
// @Summary      Get a participant's point balance
// @Description  Aggregates the participant's ledger over active, finished content.
// @Tags         participants
// @Produce      json
// @Param        participantID  path      int  true  "participant ID"
// @Success      200  {object}  response.BalanceResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /participants/{participantID}/balance [get]
// @Security     BearerAuth
func (h *ParticipantHandler) HandleGetBalance(ctx *gin.Context) {
	id, respErr := h.resolveParticipantID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	balance, err := h.ledger.ComputeBalance(ctx.Request.Context(), id)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetBalance -> h.ledger.ComputeBalance -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.BalanceResponse{
		Gained:    balance.Gained,
		Spent:     balance.Spent,
		Available: balance.Available(),
	})
}

// HandleGetPrestige godoc
// @Summary      Get a participant's prestige estimate
// @Tags         participants
// @Produce      json
// @Param        participantID  path      int  true  "participant ID"
// @Success      200  {object}  response.PrestigeResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /participants/{participantID}/prestige [get]
// @Security     BearerAuth
func (h *ParticipantHandler) HandleGetPrestige(ctx *gin.Context) {
	id, respErr := h.resolveParticipantID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	prestige, err := h.prestige.ComputePrestige(ctx.Request.Context(), id)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetPrestige -> h.prestige.ComputePrestige -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.PrestigeResponse{
		ParticipantID: id,
		Prestige:      prestige,
	})
}

// HandleGetPackage godoc
// @Summary      Get a participant's active work package
// @Tags         participants
// @Produce      json
// @Param        participantID  path      int  true  "participant ID"
// @Success      200  {object}  domain.WorkPackage
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /participants/{participantID}/package [get]
// @Security     BearerAuth
func (h *ParticipantHandler) HandleGetPackage(ctx *gin.Context) {
	id, respErr := h.resolveParticipantID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	pkg, err := h.packages.Status(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("work package", "participantID", id))
			return
		}

		err = fmt.Errorf("v1.HandleGetPackage -> h.packages.Status -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, pkg)
}

// HandleProvisionPackage godoc
// @Summary      Provision a fresh work package for a participant
// @Description  Finishes any open package and creates a new one sized from the current global configuration. Admin only.
// @Tags         participants
// @Produce      json
// @Param        participantID  path      int  true  "participant ID"
// @Success      201  {object}  domain.WorkPackage
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /participants/{participantID}/package [post]
// @Security     BearerAuth
func (h *ParticipantHandler) HandleProvisionPackage(ctx *gin.Context) {
	requester, respErr := getParticipantFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !requester.Admin {
		response.RenderErr(ctx, response.ErrPermissionDenied(errAdminOnly))
		return
	}

	raw := ctx.Param("participantID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid participant ID (%v)", raw)))
		return
	}

	pkg, err := h.packages.Provision(ctx.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participant", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleProvisionPackage -> h.packages.Provision -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, pkg)
}

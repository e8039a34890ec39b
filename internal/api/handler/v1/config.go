package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edumesh/contribution-api/internal/api/handler/v1/request"
	"github.com/edumesh/contribution-api/internal/api/handler/v1/response"
	"github.com/edumesh/contribution-api/internal/domain"
	"github.com/edumesh/contribution-api/internal/service"
)

type ConfigService interface {
	CreateGlobal(ctx context.Context, input service.GlobalConfigInput) (domain.GlobalConfig, error)
	PatchGlobal(ctx context.Context, patch service.GlobalConfigPatch) (domain.GlobalConfig, error)
	CreateNode(ctx context.Context, input service.NodeConfigInput) (domain.NodeConfig, error)
	PatchNode(ctx context.Context, nodeID uint, patch service.NodeConfigPatch) (domain.NodeConfig, error)
	EffectiveForNode(ctx context.Context, nodeID uint) (domain.EffectiveConfig, error)
}

type ConfigHandler struct {
	svc     ConfigService
	parties ParticipantService
}

func NewConfigHandler(svc ConfigService, parties ParticipantService) *ConfigHandler {
	return &ConfigHandler{
		svc:     svc,
		parties: parties,
	}
}

func (h *ConfigHandler) requireAdmin(ctx *gin.Context) *response.Err {
	actor, respErr := getParticipantFromContext(ctx, h.parties)
	if respErr != nil {
		return respErr
	}

	if !actor.Admin {
		return response.ErrPermissionDenied(errAdminOnly)
	}

	return nil
}

func parseNodeID(ctx *gin.Context) (uint, *response.Err) {
	raw := ctx.Param("nodeID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid node ID (%v)", raw))
	}

	return uint(id), nil
}

// HandleCreateGlobalConfig godoc
// @Summary      Create the global configuration
// @Description  Shares are given as percentages and normalized so they sum to 1. Admin only.
// @Tags         configs
// @Produce      json
// @Param        request  body      request.CreateGlobalConfigRequest true "request body"
// @Success      201  {object}  domain.GlobalConfig
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /configs/global [post]
// @Security     BearerAuth
func (h *ConfigHandler) HandleCreateGlobalConfig(ctx *gin.Context) {
	if respErr := h.requireAdmin(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateGlobalConfigRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	conf, err := h.svc.CreateGlobal(ctx.Request.Context(), service.GlobalConfigInput{
		NodeID:            req.NodeID,
		PackageSize:       req.PackageSize,
		TaskSharePct:      req.TaskSharePct,
		InfoSharePct:      req.InfoSharePct,
		SolutionSharePct:  req.SolutionSharePct,
		RateSharePct:      req.RateSharePct,
		TaskPoints:        req.TaskPoints,
		TaskCost:          req.TaskCost,
		TaskMaxPoints:     req.TaskMaxPoints,
		InfoPoints:        req.InfoPoints,
		InfoCost:          req.InfoCost,
		InfoMaxPoints:     req.InfoMaxPoints,
		SolutionPoints:    req.SolutionPoints,
		SolutionCost:      req.SolutionCost,
		SolutionMaxPoints: req.SolutionMaxPoints,
		RatingPoints:      req.RatingPoints,
		RatingCost:        req.RatingCost,
		RatingMaxPoints:   req.RatingMaxPoints,
	})
	if err != nil {
		if errors.Is(err, service.ErrConfigurationInvalid) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateGlobalConfig -> h.svc.CreateGlobal -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, conf)
}

// HandlePatchGlobalConfig godoc
// @Summary      Patch the global configuration
// @Description  Only supplied fields change; untouched shares keep their stored weight through renormalization. Admin only.
// @Tags         configs
// @Produce      json
// @Param        request  body      request.PatchGlobalConfigRequest true "request body"
// @Success      200  {object}  domain.GlobalConfig
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /configs/global [patch]
// @Security     BearerAuth
func (h *ConfigHandler) HandlePatchGlobalConfig(ctx *gin.Context) {
	if respErr := h.requireAdmin(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.PatchGlobalConfigRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	conf, err := h.svc.PatchGlobal(ctx.Request.Context(), service.GlobalConfigPatch{
		PackageSize:       req.PackageSize,
		TaskSharePct:      req.TaskSharePct,
		InfoSharePct:      req.InfoSharePct,
		SolutionSharePct:  req.SolutionSharePct,
		RateSharePct:      req.RateSharePct,
		TaskPoints:        req.TaskPoints,
		TaskCost:          req.TaskCost,
		TaskMaxPoints:     req.TaskMaxPoints,
		InfoPoints:        req.InfoPoints,
		InfoCost:          req.InfoCost,
		InfoMaxPoints:     req.InfoMaxPoints,
		SolutionPoints:    req.SolutionPoints,
		SolutionCost:      req.SolutionCost,
		SolutionMaxPoints: req.SolutionMaxPoints,
		RatingPoints:      req.RatingPoints,
		RatingCost:        req.RatingCost,
		RatingMaxPoints:   req.RatingMaxPoints,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConfigNotFound):
			response.RenderErr(ctx, response.ErrNotFound("global configuration", "scope", "global"))
		case errors.Is(err, service.ErrConfigurationInvalid):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandlePatchGlobalConfig -> h.svc.PatchGlobal -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, conf)
}

// HandleCreateNodeConfig godoc
// @Summary      Create a node-local configuration
// @Description  All fields are optional; absent fields fall through to the global configuration at resolution time. Admin only.
// @Tags         configs
// @Produce      json
// @Param        nodeID   path      int  true  "node ID"
// @Param        request  body      request.CreateNodeConfigRequest true "request body"
// @Success      201  {object}  domain.NodeConfig
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /configs/nodes/{nodeID} [post]
// @Security     BearerAuth
func (h *ConfigHandler) HandleCreateNodeConfig(ctx *gin.Context) {
	if respErr := h.requireAdmin(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	nodeID, respErr := parseNodeID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateNodeConfigRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	conf, err := h.svc.CreateNode(ctx.Request.Context(), service.NodeConfigInput{
		NodeID:            nodeID,
		TaskSharePct:      req.TaskSharePct,
		InfoSharePct:      req.InfoSharePct,
		SolutionSharePct:  req.SolutionSharePct,
		TaskPoints:        req.TaskPoints,
		TaskCost:          req.TaskCost,
		TaskMaxPoints:     req.TaskMaxPoints,
		InfoPoints:        req.InfoPoints,
		InfoCost:          req.InfoCost,
		InfoMaxPoints:     req.InfoMaxPoints,
		SolutionPoints:    req.SolutionPoints,
		SolutionCost:      req.SolutionCost,
		SolutionMaxPoints: req.SolutionMaxPoints,
		RatingPoints:      req.RatingPoints,
		RatingCost:        req.RatingCost,
		RatingMaxPoints:   req.RatingMaxPoints,
	})
	if err != nil {
		if errors.Is(err, service.ErrConfigurationInvalid) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateNodeConfig -> h.svc.CreateNode -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, conf)
}

// HandlePatchNodeConfig godoc
// @Summary      Patch a node-local configuration
// @Tags         configs
// @Produce      json
// @Param        nodeID   path      int  true  "node ID"
// @Param        request  body      request.PatchNodeConfigRequest true "request body"
// @Success      200  {object}  domain.NodeConfig
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /configs/nodes/{nodeID} [patch]
// @Security     BearerAuth
func (h *ConfigHandler) HandlePatchNodeConfig(ctx *gin.Context) {
	if respErr := h.requireAdmin(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	nodeID, respErr := parseNodeID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.PatchNodeConfigRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	conf, err := h.svc.PatchNode(ctx.Request.Context(), nodeID, service.NodeConfigPatch{
		TaskSharePct:      req.TaskSharePct,
		InfoSharePct:      req.InfoSharePct,
		SolutionSharePct:  req.SolutionSharePct,
		TaskPoints:        req.TaskPoints,
		TaskCost:          req.TaskCost,
		TaskMaxPoints:     req.TaskMaxPoints,
		InfoPoints:        req.InfoPoints,
		InfoCost:          req.InfoCost,
		InfoMaxPoints:     req.InfoMaxPoints,
		SolutionPoints:    req.SolutionPoints,
		SolutionCost:      req.SolutionCost,
		SolutionMaxPoints: req.SolutionMaxPoints,
		RatingPoints:      req.RatingPoints,
		RatingCost:        req.RatingCost,
		RatingMaxPoints:   req.RatingMaxPoints,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConfigNotFound):
			response.RenderErr(ctx, response.ErrNotFound("node configuration", "nodeID", nodeID))
		case errors.Is(err, service.ErrConfigurationInvalid):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandlePatchNodeConfig -> h.svc.PatchNode -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, conf)
}

// HandleGetEffectiveConfig godoc
// @Summary      Get the effective configuration for a node
// @Description  Resolves the node-local overrides against the global configuration.
// @Tags         configs
// @Produce      json
// @Param        nodeID  path      int  true  "node ID"
// @Success      200  {object}  domain.EffectiveConfig
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /configs/nodes/{nodeID} [get]
// @Security     BearerAuth
func (h *ConfigHandler) HandleGetEffectiveConfig(ctx *gin.Context) {
	nodeID, respErr := parseNodeID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	conf, err := h.svc.EffectiveForNode(ctx.Request.Context(), nodeID)
	if err != nil {
		if errors.Is(err, service.ErrConfigNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("global configuration", "scope", "global"))
			return
		}

		err = fmt.Errorf("v1.HandleGetEffectiveConfig -> h.svc.EffectiveForNode -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, conf)
}

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

type AllocationService interface {
	CreateContent(ctx context.Context, kind domain.ContentKind, input service.CreateContentInput, actor domain.Participant) (service.AllocationResult, error)
	CreateRating(ctx context.Context, input service.CreateRatingInput, actor domain.Participant) (service.AllocationResult, error)
}

type ContentService interface {
	GetContent(ctx context.Context, id uint) (domain.Content, error)
	GetChildren(ctx context.Context, parentID uint) ([]domain.Content, error)
	GetParentChain(ctx context.Context, id uint) ([]domain.Content, error)
	Deactivate(ctx context.Context, id uint) error
}

type ContentHandler struct {
	svc     AllocationService
	reader  ContentService
	parties ParticipantService
}

func NewContentHandler(svc AllocationService, reader ContentService, parties ParticipantService) *ContentHandler {
	return &ContentHandler{
		svc:     svc,
		reader:  reader,
		parties: parties,
	}
}

func parseContentID(ctx *gin.Context) (uint, *response.Err) {
	raw := ctx.Param("contentID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid content ID (%v)", raw))
	}

	return uint(id), nil
}

// handleCreate is the shared rationed-creation path for tasks, infos
// and solutions.
func (h *ContentHandler) handleCreate(ctx *gin.Context, kind domain.ContentKind) {
	actor, respErr := getParticipantFromContext(ctx, h.parties)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	parentID, respErr := parseContentID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.CreateContent(ctx.Request.Context(), kind, service.CreateContentInput{
		ParentID: parentID,
		Title:    req.Title,
		Body:     req.Body,
		Draft:    req.Draft,
	}, actor)
	if err != nil {
		h.renderAllocationErr(ctx, err, parentID)
		return
	}

	ctx.JSON(http.StatusCreated, response.AllocationResponse{
		Content:  response.NewContentResponse(result.Content),
		Package:  result.Package,
		Elevated: result.Elevated,
	})
}

func (h *ContentHandler) renderAllocationErr(ctx *gin.Context, err error, contentID uint) {
	switch {
	case errors.Is(err, service.ErrContentNotFound):
		response.RenderErr(ctx, response.ErrNotFound("content", "ID", contentID))
	case errors.Is(err, service.ErrPackageNotFound):
		response.RenderErr(ctx, response.ErrNotFound("work package", "contentID", contentID))
	case errors.Is(err, service.ErrQuotaExhausted):
		response.RenderErr(ctx, response.ErrQuotaExhausted(err))
	case errors.Is(err, service.ErrInsufficientBalance):
		response.RenderErr(ctx, response.ErrInsufficientBalance(err))
	case errors.Is(err, service.ErrSelfActionForbidden):
		response.RenderErr(ctx, response.ErrSelfActionForbidden(err))
	case errors.Is(err, service.ErrConfigNotFound):
		response.RenderErr(ctx, response.ErrNotFound("configuration", "contentID", contentID))
	default:
		err = fmt.Errorf("v1.ContentHandler -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

// HandleCreateTask godoc
// @Summary      Create a task under a content node
// @Description  Consumes one task unit from the caller's active work package and records the gain and cost ledger entries.
// @Tags         contents
// @Produce      json
// @Param        contentID  path      int  true  "parent content ID"
// @Param        request    body      request.CreateContentRequest true "request body"
// @Success      201  {object}  response.AllocationResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /contents/{contentID}/tasks [post]
// @Security     BearerAuth
func (h *ContentHandler) HandleCreateTask(ctx *gin.Context) {
	h.handleCreate(ctx, domain.KindTask)
}

// HandleCreateInfo godoc
// @Summary      Create an info item under a content node
// @Tags         contents
// @Produce      json
// @Param        contentID  path      int  true  "parent content ID"
// @Param        request    body      request.CreateContentRequest true "request body"
// @Success      201  {object}  response.AllocationResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /contents/{contentID}/infos [post]
// @Security     BearerAuth
func (h *ContentHandler) HandleCreateInfo(ctx *gin.Context) {
	h.handleCreate(ctx, domain.KindInfo)
}

// HandleCreateSolution godoc
// @Summary      Create a solution under a content node
// @Description  A solution posted with draft=true stays out of ledger aggregation until finished.
// @Tags         contents
// @Produce      json
// @Param        contentID  path      int  true  "parent content ID"
// @Param        request    body      request.CreateContentRequest true "request body"
// @Success      201  {object}  response.AllocationResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /contents/{contentID}/solutions [post]
// @Security     BearerAuth
func (h *ContentHandler) HandleCreateSolution(ctx *gin.Context) {
	h.handleCreate(ctx, domain.KindSolution)
}

// HandleCreateRating godoc
// @Summary      Rate an existing content item
// @Description  Credits the rated author with a prestige-weighted gain and records prestige feedback for them.
// @Tags         contents
// @Produce      json
// @Param        contentID  path      int  true  "rated content ID"
// @Param        request    body      request.CreateRatingRequest true "request body"
// @Success      201  {object}  response.AllocationResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /contents/{contentID}/ratings [post]
// @Security     BearerAuth
func (h *ContentHandler) HandleCreateRating(ctx *gin.Context) {
	actor, respErr := getParticipantFromContext(ctx, h.parties)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	contentID, respErr := parseContentID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateRatingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.CreateRating(ctx.Request.Context(), service.CreateRatingInput{
		ContentID: contentID,
		Value:     req.Value,
		Body:      req.Body,
	}, actor)
	if err != nil {
		h.renderAllocationErr(ctx, err, contentID)
		return
	}

	ctx.JSON(http.StatusCreated, response.AllocationResponse{
		Content:  response.NewContentResponse(result.Content),
		Package:  result.Package,
		Elevated: result.Elevated,
	})
}

// HandleGetContent godoc
// @Summary      Get a content item with its parent chain
// @Tags         contents
// @Produce      json
// @Param        contentID  path      int  true  "content ID"
// @Success      200  {object}  response.ContentDetailResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /contents/{contentID} [get]
// @Security     BearerAuth
func (h *ContentHandler) HandleGetContent(ctx *gin.Context) {
	contentID, respErr := parseContentID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	content, err := h.reader.GetContent(ctx.Request.Context(), contentID)
	if err != nil {
		if errors.Is(err, service.ErrContentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("content", "ID", contentID))
			return
		}

		err = fmt.Errorf("v1.HandleGetContent -> h.reader.GetContent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	chain, err := h.reader.GetParentChain(ctx.Request.Context(), contentID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetContent -> h.reader.GetParentChain -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.ContentDetailResponse{
		Content:     response.NewContentResponse(content),
		ParentChain: response.NewContentListResponse(chain),
	})
}

// HandleGetChildren godoc
// @Summary      List a content node's direct children
// @Tags         contents
// @Produce      json
// @Param        contentID  path      int  true  "content ID"
// @Success      200  {array}   response.ContentResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /contents/{contentID}/children [get]
// @Security     BearerAuth
func (h *ContentHandler) HandleGetChildren(ctx *gin.Context) {
	contentID, respErr := parseContentID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	children, err := h.reader.GetChildren(ctx.Request.Context(), contentID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetChildren -> h.reader.GetChildren -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewContentListResponse(children))
}

// HandleDeactivateContent godoc
// @Summary      Deactivate a content item
// @Description  Removes the item and its ledger entries from aggregation without deleting the row. Admin only.
// @Tags         contents
// @Produce      json
// @Param        contentID  path      int  true  "content ID"
// @Success      204  {object}  nil
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /contents/{contentID} [delete]
// @Security     BearerAuth
func (h *ContentHandler) HandleDeactivateContent(ctx *gin.Context) {
	actor, respErr := getParticipantFromContext(ctx, h.parties)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !actor.Admin {
		response.RenderErr(ctx, response.ErrPermissionDenied(errAdminOnly))
		return
	}

	contentID, respErr := parseContentID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.reader.Deactivate(ctx.Request.Context(), contentID); err != nil {
		if errors.Is(err, service.ErrContentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("content", "ID", contentID))
			return
		}

		err = fmt.Errorf("v1.HandleDeactivateContent -> h.reader.Deactivate -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

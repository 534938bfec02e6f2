package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tablemaker/internal/middleware"
	"github.com/tablemaker/internal/repository"
	"github.com/tablemaker/internal/service"
	"github.com/tablemaker/pkg/response"
)

// RequestHandler handles join-request API requests
type RequestHandler struct {
	requestService *service.RequestService
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(requestService *service.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
	}
}

// Create handles join-request creation for the authenticated user
// POST /api/v1/groups/:id/requests
func (h *RequestHandler) Create(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.NotFound(c, "group not found")
		return
	}

	request, err := h.requestService.Create(uint(groupID), middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrGroupNotFound):
			response.NotFound(c, "group not found")
		case errors.Is(err, service.ErrAlreadyMember):
			response.UnprocessableEntity(c, err.Error())
		case errors.Is(err, repository.ErrDuplicateRequest):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, "failed to create group request")
		}
		return
	}

	response.Created(c, gin.H{"groupRequest": request})
}

// List handles join-request listing scoped to the group's master
// GET /api/v1/groups/:id/requests?master=
func (h *RequestHandler) List(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.NotFound(c, "group not found")
		return
	}

	// The master filter is required so arbitrary users cannot
	// enumerate a group's pending requests
	masterParam := c.Query("master")
	if masterParam == "" {
		response.UnprocessableEntity(c, "master query parameter is required")
		return
	}
	masterID, err := strconv.ParseUint(masterParam, 10, 32)
	if err != nil {
		response.UnprocessableEntity(c, "master query parameter must be numeric")
		return
	}

	requests, err := h.requestService.List(uint(groupID), uint(masterID))
	if err != nil {
		response.InternalError(c, "failed to list group requests")
		return
	}

	response.OK(c, gin.H{"groupRequests": requests})
}

// Accept handles join-request acceptance
// POST /api/v1/groups/:id/requests/:requestId/accept
func (h *RequestHandler) Accept(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.NotFound(c, "group not found")
		return
	}

	requestID, err := strconv.ParseUint(c.Param("requestId"), 10, 32)
	if err != nil {
		response.NotFound(c, "group request not found")
		return
	}

	request, err := h.requestService.Accept(uint(requestID), uint(groupID))
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			response.NotFound(c, "group request not found")
			return
		}
		response.InternalError(c, "failed to accept group request")
		return
	}

	response.OK(c, gin.H{"groupRequest": request})
}

// RegisterRoutes registers join-request routes
func (h *RequestHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	requests := rg.Group("/groups/:id/requests", authMiddleware)
	{
		requests.POST("", h.Create)
		requests.GET("", h.List)
		requests.POST("/:requestId/accept", h.Accept)
	}
}

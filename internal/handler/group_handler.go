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

// GroupHandler handles group API requests
type GroupHandler struct {
	groupService *service.GroupService
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

// List handles group listing with optional filters
// GET /api/v1/groups?user=&text=&page=&limit=
func (h *GroupHandler) List(c *gin.Context) {
	var userID uint
	if v := c.Query("user"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			response.UnprocessableEntity(c, "user filter must be numeric")
			return
		}
		userID = uint(parsed)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	groups, total, err := h.groupService.List(userID, c.Query("text"), page, limit)
	if err != nil {
		response.InternalError(c, "failed to list groups")
		return
	}

	response.OK(c, gin.H{
		"groups": gin.H{
			"data": groups,
			"meta": gin.H{
				"total":    total,
				"page":     page,
				"per_page": limit,
			},
		},
	})
}

// Create handles group creation
// POST /api/v1/groups
func (h *GroupHandler) Create(c *gin.Context) {
	var req service.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	group, err := h.groupService.Create(&req)
	if err != nil {
		response.InternalError(c, "failed to create group")
		return
	}

	response.Created(c, gin.H{"group": group})
}

// Update handles group updates
// PATCH /api/v1/groups/:id
func (h *GroupHandler) Update(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.NotFound(c, "group not found")
		return
	}

	var req service.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	group, err := h.groupService.Update(uint(groupID), middleware.GetUserID(c), &req)
	if err != nil {
		h.mapGroupError(c, err, "failed to update group")
		return
	}

	response.OK(c, gin.H{"group": group})
}

// Delete handles group deletion
// DELETE /api/v1/groups/:id
func (h *GroupHandler) Delete(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.NotFound(c, "group not found")
		return
	}

	if err := h.groupService.Delete(uint(groupID), middleware.GetUserID(c)); err != nil {
		h.mapGroupError(c, err, "failed to delete group")
		return
	}

	response.OK(c, gin.H{})
}

// RemovePlayer handles player removal
// DELETE /api/v1/groups/:id/players/:playerId
func (h *GroupHandler) RemovePlayer(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.NotFound(c, "group not found")
		return
	}

	playerID, err := strconv.ParseUint(c.Param("playerId"), 10, 32)
	if err != nil {
		response.NotFound(c, "player not found")
		return
	}

	if err := h.groupService.RemovePlayer(uint(groupID), uint(playerID)); err != nil {
		if errors.Is(err, service.ErrCannotRemoveMaster) {
			response.BadRequest(c, err.Error())
			return
		}
		h.mapGroupError(c, err, "failed to remove player")
		return
	}

	response.OK(c, gin.H{})
}

func (h *GroupHandler) mapGroupError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrGroupNotFound):
		response.NotFound(c, "group not found")
	case errors.Is(err, service.ErrNotGroupMaster):
		response.Forbidden(c, err.Error())
	default:
		response.InternalError(c, fallback)
	}
}

// RegisterRoutes registers group routes
func (h *GroupHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	groups := rg.Group("/groups", authMiddleware)
	{
		groups.GET("", h.List)
		groups.POST("", h.Create)
		groups.PATCH("/:id", h.Update)
		groups.DELETE("/:id", h.Delete)
		groups.DELETE("/:id/players/:playerId", h.RemovePlayer)
	}
}

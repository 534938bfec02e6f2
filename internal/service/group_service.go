package service

import (
	"errors"

	"github.com/tablemaker/internal/models"
	"github.com/tablemaker/internal/repository"
)

var (
	ErrNotGroupMaster     = errors.New("only the group master may do this")
	ErrCannotRemoveMaster = errors.New("Cannot remove master from group")
)

// GroupService handles game-table operations
type GroupService struct {
	groupRepo repository.GroupRepository
}

// NewGroupService creates a new GroupService
func NewGroupService(groupRepo repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

// CreateGroupRequest represents the group creation request
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"required,max=500"`
	Schedule    string `json:"schedule" binding:"required,max=100"`
	Location    string `json:"location" binding:"required,max=100"`
	Chronicle   string `json:"chronicle" binding:"required,max=500"`
	Master      uint   `json:"master" binding:"required"`
}

// UpdateGroupRequest represents the group update request. All fields
// are optional; zero values are skipped.
type UpdateGroupRequest struct {
	Name        string `json:"name" binding:"omitempty,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
	Schedule    string `json:"schedule" binding:"omitempty,max=100"`
	Location    string `json:"location" binding:"omitempty,max=100"`
	Chronicle   string `json:"chronicle" binding:"omitempty,max=500"`
}

// Create creates a group with the master attached as its first
// player, then returns it with players loaded.
func (s *GroupService) Create(req *CreateGroupRequest) (*models.Group, error) {
	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		Schedule:    req.Schedule,
		Location:    req.Location,
		Chronicle:   req.Chronicle,
		Master:      req.Master,
	}

	if err := s.groupRepo.CreateWithMaster(group); err != nil {
		return nil, err
	}

	return s.groupRepo.GetByIDWithPlayers(group.ID)
}

// Update updates a group's details. Only the master may update.
func (s *GroupService) Update(groupID, actorID uint, req *UpdateGroupRequest) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(groupID)
	if err != nil {
		return nil, err
	}

	if group.Master != actorID {
		return nil, ErrNotGroupMaster
	}

	if req.Name != "" {
		group.Name = req.Name
	}
	if req.Description != "" {
		group.Description = req.Description
	}
	if req.Schedule != "" {
		group.Schedule = req.Schedule
	}
	if req.Location != "" {
		group.Location = req.Location
	}
	if req.Chronicle != "" {
		group.Chronicle = req.Chronicle
	}

	if err := s.groupRepo.Update(group); err != nil {
		return nil, err
	}

	return group, nil
}

// List retrieves groups with optional player and free-text filters
func (s *GroupService) List(userID uint, text string, page, limit int) ([]models.Group, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}
	groups, total, err := s.groupRepo.List(userID, text, page, limit)
	if err != nil {
		return nil, 0, err
	}
	if groups == nil {
		groups = []models.Group{}
	}
	return groups, total, nil
}

// Delete deletes a group with its memberships and requests. Only the
// master may delete.
func (s *GroupService) Delete(groupID, actorID uint) error {
	group, err := s.groupRepo.GetByID(groupID)
	if err != nil {
		return err
	}

	if group.Master != actorID {
		return ErrNotGroupMaster
	}

	return s.groupRepo.DeleteCascade(group.ID)
}

// RemovePlayer detaches a player from a group. The master can never
// be removed; removing an absent player is a no-op.
func (s *GroupService) RemovePlayer(groupID, playerID uint) error {
	group, err := s.groupRepo.GetByID(groupID)
	if err != nil {
		return err
	}

	if playerID == group.Master {
		return ErrCannotRemoveMaster
	}

	return s.groupRepo.DetachPlayer(groupID, playerID)
}

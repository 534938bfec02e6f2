package repository

import (
	"errors"

	"github.com/tablemaker/internal/models"
	"gorm.io/gorm"
)

var (
	ErrRequestNotFound  = errors.New("group request not found")
	ErrDuplicateRequest = errors.New("group request already exists")
)

// GroupRequestRepository handles join-request data access
type GroupRequestRepository interface {
	Create(request *models.GroupRequest) error
	GetByIDAndGroup(id, groupID uint) (*models.GroupRequest, error)
	ExistsPending(groupID, userID uint) (bool, error)
	ListByGroupAndMaster(groupID, masterID uint) ([]models.GroupRequest, error)
	AcceptAndAttach(request *models.GroupRequest) error
}

type groupRequestRepository struct {
	db *gorm.DB
}

// NewGroupRequestRepository creates a new GroupRequestRepository
func NewGroupRequestRepository(db *gorm.DB) GroupRequestRepository {
	return &groupRequestRepository{db: db}
}

// Create inserts a new request. The partial unique index on
// (group_id, user_id, status=PENDING) closes the check-then-insert
// race; a duplicate key violation surfaces as ErrDuplicateRequest.
func (r *groupRequestRepository) Create(request *models.GroupRequest) error {
	err := r.db.Create(request).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRequest
	}
	return err
}

// GetByIDAndGroup retrieves a request by ID scoped to a group
func (r *groupRequestRepository) GetByIDAndGroup(id, groupID uint) (*models.GroupRequest, error) {
	var request models.GroupRequest
	result := r.db.Where("id = ? AND group_id = ?", id, groupID).First(&request)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, result.Error
	}
	return &request, nil
}

// ExistsPending checks for a PENDING request for (group, user)
func (r *groupRequestRepository) ExistsPending(groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.GroupRequest{}).
		Where("group_id = ? AND user_id = ? AND status = ?", groupID, userID, models.RequestStatusPending).
		Count(&count).Error
	return count > 0, err
}

// ListByGroupAndMaster retrieves the group's requests, but only when
// the group's master matches masterID. Results carry the associated
// group and user for display.
func (r *groupRequestRepository) ListByGroupAndMaster(groupID, masterID uint) ([]models.GroupRequest, error) {
	var requests []models.GroupRequest
	result := r.db.
		Joins("JOIN groups ON groups.id = group_requests.group_id").
		Where("group_requests.group_id = ? AND groups.master = ?", groupID, masterID).
		Preload("Group").
		Preload("User").
		Order("group_requests.created_at ASC").
		Find(&requests)
	if result.Error != nil {
		return nil, result.Error
	}
	return requests, nil
}

// AcceptAndAttach flips the request to ACCEPTED and inserts the
// matching membership row. Both writes are one transaction; on any
// failure neither persists.
func (r *groupRequestRepository) AcceptAndAttach(request *models.GroupRequest) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(request).
			Update("status", models.RequestStatusAccepted).Error
		if err != nil {
			return err
		}
		return tx.Exec(
			"INSERT INTO groups_users (group_id, user_id) VALUES (?, ?)",
			request.GroupID, request.UserID,
		).Error
	})
}

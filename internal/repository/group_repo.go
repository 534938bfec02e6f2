package repository

import (
	"errors"

	"github.com/tablemaker/internal/models"
	"gorm.io/gorm"
)

var (
	ErrGroupNotFound = errors.New("group not found")
)

// GroupRepository handles group and membership data access.
// Membership rows in groups_users are written explicitly rather
// than through the GORM association side-channel.
type GroupRepository interface {
	CreateWithMaster(group *models.Group) error
	GetByID(id uint) (*models.Group, error)
	GetByIDWithPlayers(id uint) (*models.Group, error)
	List(userID uint, text string, page, limit int) ([]models.Group, int64, error)
	Update(group *models.Group) error
	DeleteCascade(id uint) error
	AttachPlayer(groupID, userID uint) error
	DetachPlayer(groupID, userID uint) error
	IsPlayer(groupID, userID uint) (bool, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// CreateWithMaster creates a group and attaches the master as its
// first player in a single transaction.
func (r *groupRepository) CreateWithMaster(group *models.Group) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		return tx.Exec(
			"INSERT INTO groups_users (group_id, user_id) VALUES (?, ?)",
			group.ID, group.Master,
		).Error
	})
}

// GetByID retrieves a group by ID
func (r *groupRepository) GetByID(id uint) (*models.Group, error) {
	var group models.Group
	result := r.db.First(&group, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, result.Error
	}
	return &group, nil
}

// GetByIDWithPlayers retrieves a group with its players and master user loaded
func (r *groupRepository) GetByIDWithPlayers(id uint) (*models.Group, error) {
	var group models.Group
	result := r.db.Preload("Players").Preload("MasterUser").First(&group, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, result.Error
	}
	return &group, nil
}

// List retrieves groups with pagination. userID filters to groups the
// user plays in; text matches against the free-text columns. Either
// filter may be zero-valued to be skipped.
func (r *groupRepository) List(userID uint, text string, page, limit int) ([]models.Group, int64, error) {
	var groups []models.Group
	var total int64

	query := r.db.Model(&models.Group{})
	if userID != 0 {
		query = query.
			Joins("JOIN groups_users ON groups_users.group_id = groups.id").
			Where("groups_users.user_id = ?", userID)
	}
	if text != "" {
		like := "%" + text + "%"
		query = query.Where(
			"groups.name ILIKE ? OR groups.description ILIKE ? OR groups.schedule ILIKE ? OR groups.location ILIKE ? OR groups.chronicle ILIKE ?",
			like, like, like, like, like,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	result := query.
		Preload("Players").
		Preload("MasterUser").
		Order("groups.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&groups)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return groups, total, nil
}

// Update updates a group
func (r *groupRepository) Update(group *models.Group) error {
	return r.db.Save(group).Error
}

// DeleteCascade deletes a group together with its membership rows and
// join requests. All three writes are one transaction.
func (r *groupRepository) DeleteCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM groups_users WHERE group_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&models.GroupRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, id).Error
	})
}

// AttachPlayer inserts a membership row for (group, user)
func (r *groupRepository) AttachPlayer(groupID, userID uint) error {
	return r.db.Exec(
		"INSERT INTO groups_users (group_id, user_id) VALUES (?, ?)",
		groupID, userID,
	).Error
}

// DetachPlayer removes the membership row for (group, user).
// Removing an absent row is not an error.
func (r *groupRepository) DetachPlayer(groupID, userID uint) error {
	return r.db.Exec(
		"DELETE FROM groups_users WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	).Error
}

// IsPlayer reports whether the user has a membership row in the group
func (r *groupRepository) IsPlayer(groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.Table("groups_users").
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

package service

import (
	"errors"

	"github.com/tablemaker/internal/models"
	"github.com/tablemaker/internal/repository"
)

var (
	ErrAlreadyMember = errors.New("user is already in the group")
)

// RequestService handles the join-request lifecycle
type RequestService struct {
	requestRepo repository.GroupRequestRepository
	groupRepo   repository.GroupRepository
}

// NewRequestService creates a new RequestService
func NewRequestService(requestRepo repository.GroupRequestRepository, groupRepo repository.GroupRepository) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		groupRepo:   groupRepo,
	}
}

// Create creates a PENDING join request for (group, user).
// A user already in the player set (the master included) cannot
// request; a second request while one is PENDING is a conflict.
func (s *RequestService) Create(groupID, userID uint) (*models.GroupRequest, error) {
	group, err := s.groupRepo.GetByID(groupID)
	if err != nil {
		return nil, err
	}

	isPlayer, err := s.groupRepo.IsPlayer(group.ID, userID)
	if err != nil {
		return nil, err
	}
	if isPlayer {
		return nil, ErrAlreadyMember
	}

	exists, err := s.requestRepo.ExistsPending(group.ID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, repository.ErrDuplicateRequest
	}

	request := &models.GroupRequest{
		UserID:  userID,
		GroupID: group.ID,
		Status:  models.RequestStatusPending,
	}

	// The partial unique index still backstops a concurrent insert
	if err := s.requestRepo.Create(request); err != nil {
		return nil, err
	}

	return request, nil
}

// List retrieves a group's requests in the context of its master.
// When masterID is not the group's master the result is empty.
func (s *RequestService) List(groupID, masterID uint) ([]models.GroupRequest, error) {
	requests, err := s.requestRepo.ListByGroupAndMaster(groupID, masterID)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []models.GroupRequest{}
	}
	return requests, nil
}

// Accept transitions a request PENDING -> ACCEPTED and materializes
// the membership row in the same transaction. Accepting an already
// accepted request is a no-op that returns the request unchanged.
func (s *RequestService) Accept(requestID, groupID uint) (*models.GroupRequest, error) {
	request, err := s.requestRepo.GetByIDAndGroup(requestID, groupID)
	if err != nil {
		return nil, err
	}

	if request.Status == models.RequestStatusAccepted {
		return request, nil
	}

	if err := s.requestRepo.AcceptAndAttach(request); err != nil {
		return nil, err
	}

	request.Status = models.RequestStatusAccepted
	return request, nil
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tablemaker/internal/models"
	"github.com/tablemaker/internal/repository"
)

func TestRequestService_Create(t *testing.T) {
	group := &models.Group{ID: 10, Master: 1}

	t.Run("group not found", func(t *testing.T) {
		groupRepo := new(MockGroupRepository)
		requestRepo := new(MockGroupRequestRepository)
		groupRepo.On("GetByID", uint(99)).Return(nil, repository.ErrGroupNotFound)

		svc := NewRequestService(requestRepo, groupRepo)
		_, err := svc.Create(99, 2)

		assert.ErrorIs(t, err, repository.ErrGroupNotFound)
		requestRepo.AssertNotCalled(t, "Create")
	})

	t.Run("requester already a member", func(t *testing.T) {
		groupRepo := new(MockGroupRepository)
		requestRepo := new(MockGroupRequestRepository)
		groupRepo.On("GetByID", uint(10)).Return(group, nil)
		groupRepo.On("IsPlayer", uint(10), uint(2)).Return(true, nil)

		svc := NewRequestService(requestRepo, groupRepo)
		_, err := svc.Create(10, 2)

		assert.ErrorIs(t, err, ErrAlreadyMember)
		requestRepo.AssertNotCalled(t, "Create")
	})

	t.Run("master cannot request own group", func(t *testing.T) {
		groupRepo := new(MockGroupRepository)
		requestRepo := new(MockGroupRequestRepository)
		groupRepo.On("GetByID", uint(10)).Return(group, nil)
		// The master is attached as a player at group creation
		groupRepo.On("IsPlayer", uint(10), uint(1)).Return(true, nil)

		svc := NewRequestService(requestRepo, groupRepo)
		_, err := svc.Create(10, 1)

		assert.ErrorIs(t, err, ErrAlreadyMember)
	})

	t.Run("duplicate pending request", func(t *testing.T) {
		groupRepo := new(MockGroupRepository)
		requestRepo := new(MockGroupRequestRepository)
		groupRepo.On("GetByID", uint(10)).Return(group, nil)
		groupRepo.On("IsPlayer", uint(10), uint(2)).Return(false, nil)
		requestRepo.On("ExistsPending", uint(10), uint(2)).Return(true, nil)

		svc := NewRequestService(requestRepo, groupRepo)
		_, err := svc.Create(10, 2)

		assert.ErrorIs(t, err, repository.ErrDuplicateRequest)
		requestRepo.AssertNotCalled(t, "Create")
	})

	t.Run("concurrent insert loses to unique index", func(t *testing.T) {
		groupRepo := new(MockGroupRepository)
		requestRepo := new(MockGroupRequestRepository)
		groupRepo.On("GetByID", uint(10)).Return(group, nil)
		groupRepo.On("IsPlayer", uint(10), uint(2)).Return(false, nil)
		requestRepo.On("ExistsPending", uint(10), uint(2)).Return(false, nil)
		requestRepo.On("Create", mock.Anything).Return(repository.ErrDuplicateRequest)

		svc := NewRequestService(requestRepo, groupRepo)
		_, err := svc.Create(10, 2)

		assert.ErrorIs(t, err, repository.ErrDuplicateRequest)
	})

	t.Run("success creates pending request", func(t *testing.T) {
		groupRepo := new(MockGroupRepository)
		requestRepo := new(MockGroupRequestRepository)
		groupRepo.On("GetByID", uint(10)).Return(group, nil)
		groupRepo.On("IsPlayer", uint(10), uint(2)).Return(false, nil)
		requestRepo.On("ExistsPending", uint(10), uint(2)).Return(false, nil)
		requestRepo.On("Create", mock.MatchedBy(func(r *models.GroupRequest) bool {
			return r.GroupID == 10 && r.UserID == 2 && r.Status == models.RequestStatusPending
		})).Return(nil)

		svc := NewRequestService(requestRepo, groupRepo)
		request, err := svc.Create(10, 2)

		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusPending, request.Status)
		assert.Equal(t, uint(10), request.GroupID)
		assert.Equal(t, uint(2), request.UserID)
		requestRepo.AssertExpectations(t)
	})
}

func TestRequestService_Accept(t *testing.T) {
	t.Run("request not found", func(t *testing.T) {
		groupRepo := new(MockGroupRepository)
		requestRepo := new(MockGroupRequestRepository)
		requestRepo.On("GetByIDAndGroup", uint(5), uint(10)).Return(nil, repository.ErrRequestNotFound)

		svc := NewRequestService(requestRepo, groupRepo)
		_, err := svc.Accept(5, 10)

		assert.ErrorIs(t, err, repository.ErrRequestNotFound)
	})

	t.Run("pending request is accepted atomically", func(t *testing.T) {
		groupRepo := new(MockGroupRepository)
		requestRepo := new(MockGroupRequestRepository)
		pending := &models.GroupRequest{ID: 5, GroupID: 10, UserID: 2, Status: models.RequestStatusPending}
		requestRepo.On("GetByIDAndGroup", uint(5), uint(10)).Return(pending, nil)
		requestRepo.On("AcceptAndAttach", pending).Return(nil)

		svc := NewRequestService(requestRepo, groupRepo)
		request, err := svc.Accept(5, 10)

		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusAccepted, request.Status)
		requestRepo.AssertExpectations(t)
	})

	t.Run("accepting an accepted request is a no-op", func(t *testing.T) {
		groupRepo := new(MockGroupRepository)
		requestRepo := new(MockGroupRequestRepository)
		accepted := &models.GroupRequest{ID: 5, GroupID: 10, UserID: 2, Status: models.RequestStatusAccepted}
		requestRepo.On("GetByIDAndGroup", uint(5), uint(10)).Return(accepted, nil)

		svc := NewRequestService(requestRepo, groupRepo)
		request, err := svc.Accept(5, 10)

		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusAccepted, request.Status)
		requestRepo.AssertNotCalled(t, "AcceptAndAttach")
	})

	t.Run("failed transaction surfaces the error", func(t *testing.T) {
		groupRepo := new(MockGroupRepository)
		requestRepo := new(MockGroupRequestRepository)
		pending := &models.GroupRequest{ID: 5, GroupID: 10, UserID: 2, Status: models.RequestStatusPending}
		requestRepo.On("GetByIDAndGroup", uint(5), uint(10)).Return(pending, nil)
		requestRepo.On("AcceptAndAttach", pending).Return(assert.AnError)

		svc := NewRequestService(requestRepo, groupRepo)
		_, err := svc.Accept(5, 10)

		assert.Error(t, err)
	})
}

func TestRequestService_List(t *testing.T) {
	groupRepo := new(MockGroupRepository)
	requestRepo := new(MockGroupRequestRepository)
	expected := []models.GroupRequest{
		{ID: 1, GroupID: 10, UserID: 2, Status: models.RequestStatusPending},
	}
	requestRepo.On("ListByGroupAndMaster", uint(10), uint(1)).Return(expected, nil)
	requestRepo.On("ListByGroupAndMaster", uint(10), uint(7)).Return([]models.GroupRequest{}, nil)

	svc := NewRequestService(requestRepo, groupRepo)

	requests, err := svc.List(10, 1)
	require.NoError(t, err)
	assert.Len(t, requests, 1)

	// A non-master sees nothing
	requests, err = svc.List(10, 7)
	require.NoError(t, err)
	assert.Empty(t, requests)
}

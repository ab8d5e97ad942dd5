package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wearvirtually/wearvirtually-api/internal/dto"
	"github.com/wearvirtually/wearvirtually-api/internal/models"
	"github.com/wearvirtually/wearvirtually-api/internal/repository"
)

var (
	// ErrFriendshipExists indicates a request between the pair is already recorded.
	ErrFriendshipExists = errors.New("friendship already exists")
	// ErrFriendshipForbidden indicates the caller is not the request addressee.
	ErrFriendshipForbidden = errors.New("only the addressee can accept a request")
)

// FriendService manages friendship requests and their notifications.
type FriendService interface {
	SendRequest(ctx context.Context, requesterID string, payload dto.FriendRequestCreate) (dto.FriendshipResponse, error)
	Accept(ctx context.Context, userID string, friendshipID uint) (dto.FriendshipResponse, error)
	ListFriends(ctx context.Context, userID string, limit int) ([]dto.FriendshipResponse, error)
}

type friendService struct {
	repo          repository.FriendshipRepository
	users         repository.UserRepository
	notifications NotificationService
	validator     *validator.Validate
	logger        zerolog.Logger
}

// NewFriendService constructs a friend service instance.
func NewFriendService(repo repository.FriendshipRepository, users repository.UserRepository, notifications NotificationService, validate *validator.Validate, logger zerolog.Logger) FriendService {
	return &friendService{
		repo:          repo,
		users:         users,
		notifications: notifications,
		validator:     validate,
		logger:        logger.With().Str("component", "friend_service").Logger(),
	}
}

func (s *friendService) SendRequest(ctx context.Context, requesterID string, payload dto.FriendRequestCreate) (dto.FriendshipResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FriendshipResponse{}, err
	}

	requesterID = strings.TrimSpace(requesterID)
	addresseeID := strings.TrimSpace(payload.AddresseeID)
	if requesterID == "" || requesterID == addresseeID {
		return dto.FriendshipResponse{}, errors.New("cannot befriend yourself")
	}

	if _, err := s.users.FindByID(ctx, addresseeID); err != nil {
		return dto.FriendshipResponse{}, fmt.Errorf("addressee: %w", err)
	}

	if _, err := s.repo.FindPair(ctx, requesterID, addresseeID); err == nil {
		return dto.FriendshipResponse{}, ErrFriendshipExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.FriendshipResponse{}, err
	}

	friendship := models.Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      models.FriendshipPending,
	}
	if err := s.repo.Create(ctx, &friendship); err != nil {
		return dto.FriendshipResponse{}, err
	}

	if _, err := s.notifications.Notify(ctx, NotificationInput{
		Recipient: Recipient{Kind: models.ParticipantUser, ID: addresseeID},
		Sender:    Recipient{Kind: models.ParticipantUser, ID: requesterID},
		Type:      models.NotificationFriendRequest,
		RelatedID: fmt.Sprintf("%d", friendship.ID),
		Text:      "You have a new friend request",
	}); err != nil {
		s.logger.Warn().Err(err).Str("addressee_id", addresseeID).Msg("failed to notify friend request")
	}

	return dto.NewFriendshipResponse(friendship), nil
}

func (s *friendService) Accept(ctx context.Context, userID string, friendshipID uint) (dto.FriendshipResponse, error) {
	friendship, err := s.repo.FindByID(ctx, friendshipID)
	if err != nil {
		return dto.FriendshipResponse{}, err
	}
	if friendship.AddresseeID != userID {
		return dto.FriendshipResponse{}, ErrFriendshipForbidden
	}
	if friendship.Status == models.FriendshipAccepted {
		return dto.NewFriendshipResponse(friendship), nil
	}

	friendship, err = s.repo.UpdateStatus(ctx, friendshipID, models.FriendshipAccepted)
	if err != nil {
		return dto.FriendshipResponse{}, err
	}

	if _, err := s.notifications.Notify(ctx, NotificationInput{
		Recipient: Recipient{Kind: models.ParticipantUser, ID: friendship.RequesterID},
		Sender:    Recipient{Kind: models.ParticipantUser, ID: userID},
		Type:      models.NotificationFriendAccept,
		RelatedID: fmt.Sprintf("%d", friendship.ID),
		Text:      "Your friend request was accepted",
	}); err != nil {
		s.logger.Warn().Err(err).Str("requester_id", friendship.RequesterID).Msg("failed to notify friend accept")
	}

	return dto.NewFriendshipResponse(friendship), nil
}

func (s *friendService) ListFriends(ctx context.Context, userID string, limit int) ([]dto.FriendshipResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user id is required")
	}

	friendships, err := s.repo.ListForUser(ctx, userID, models.FriendshipAccepted, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.FriendshipResponse, 0, len(friendships))
	for _, friendship := range friendships {
		out = append(out, dto.NewFriendshipResponse(friendship))
	}
	return out, nil
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// SubscriptionService manages user→author subscriptions.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe creates a subscription. Self-subscription and duplicates are
// validation errors regardless of prior state.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*models.Subscription, error) {
	if userID == authorID {
		return nil, ErrSelfSubscription
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var existing models.Subscription
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateSubscription
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	subscription := models.Subscription{
		UserID:   userID,
		AuthorID: authorID,
		Author:   author,
	}
	if err := s.db.WithContext(ctx).Create(&subscription).Error; err != nil {
		return nil, err
	}
	return &subscription, nil
}

// Unsubscribe removes the subscription; a missing row reports ErrNotSubscribed.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotSubscribed
	}
	return nil
}

// List returns one page of the user's subscriptions with authors preloaded.
func (s *SubscriptionService) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Subscription, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var subscriptions []models.Subscription
	err = s.db.WithContext(ctx).
		Preload("Author").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&subscriptions).Error
	return subscriptions, total, err
}

// AuthorIDs returns the set of author ids the user follows.
func (s *SubscriptionService) AuthorIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("user_id = ?", userID).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// IsSubscribed reports whether user follows author.
func (s *SubscriptionService) IsSubscribed(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// RelationService manages the user↔recipe membership rows (favorites and
// shopping cart), dispatched through typed RelationKind values.
type RelationService struct {
	db *gorm.DB
}

func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

// Add inserts a membership row and returns the recipe. A second add of
// the same (user, recipe, kind) reports ErrAlreadyInSet.
func (s *RelationService) Add(ctx context.Context, userID, recipeID uuid.UUID, kind models.RelationKind) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	var existing models.UserRecipeRelation
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyInSet
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	relation := models.UserRecipeRelation{
		UserID:   userID,
		RecipeID: recipeID,
		Kind:     kind,
	}
	if err := s.db.WithContext(ctx).Create(&relation).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Remove deletes a membership row; a missing row reports ErrNotInSet.
func (s *RelationService) Remove(ctx context.Context, userID, recipeID uuid.UUID, kind models.RelationKind) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Delete(&models.UserRecipeRelation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotInSet
	}
	return nil
}

// RecipeIDs returns the set of recipe ids the user holds in the given kind.
func (s *RelationService) RecipeIDs(ctx context.Context, userID uuid.UUID, kind models.RelationKind) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.UserRecipeRelation{}).
		Where("user_id = ? AND kind = ?", userID, kind).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

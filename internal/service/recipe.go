package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// RecipeService handles recipe CRUD and filtering.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// IngredientAmountInput references a catalog ingredient with a quantity.
type IngredientAmountInput struct {
	ID     uint
	Amount int
}

// RecipeInput is the write payload for create and update.
type RecipeInput struct {
	Name        string
	Text        string
	CookingTime int
	ImageURL    string
	TagIDs      []uint
	Ingredients []IngredientAmountInput
}

// RecipeFilter narrows the recipe listing.
type RecipeFilter struct {
	AuthorID    *uuid.UUID
	TagSlugs    []string
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
	Page        int
	Limit       int
}

// Create stores a recipe with its ingredient amounts and tag set in one
// transaction.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, in RecipeInput) (*models.Recipe, error) {
	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}
	amounts, err := s.resolveAmounts(ctx, in.Ingredients)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        in.Name,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		ImageURL:    in.ImageURL,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		for i := range amounts {
			amounts[i].RecipeID = recipe.ID
		}
		if len(amounts) > 0 {
			if err := tx.Create(&amounts).Error; err != nil {
				return err
			}
		}
		return tx.Model(&recipe).Association("Tags").Replace(tags)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, recipe.ID)
}

// Update replaces the recipe's fields, its full ingredient set and its
// full tag set. Only the author may update.
func (s *RecipeService) Update(ctx context.Context, id, callerID uuid.UUID, in RecipeInput) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != callerID {
		return nil, ErrNotOwner
	}

	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}
	amounts, err := s.resolveAmounts(ctx, in.Ingredients)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         in.Name,
			"text":         in.Text,
			"cooking_time": in.CookingTime,
		}
		if in.ImageURL != "" {
			updates["image_url"] = in.ImageURL
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range amounts {
			amounts[i].RecipeID = recipe.ID
		}
		if len(amounts) > 0 {
			if err := tx.Create(&amounts).Error; err != nil {
				return err
			}
		}
		return tx.Model(&recipe).Association("Tags").Replace(tags)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, recipe.ID)
}

// Delete removes a recipe. Only the author may delete.
func (s *RecipeService) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	if recipe.AuthorID != callerID {
		return ErrNotOwner
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.UserRecipeRelation{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// Get retrieves one recipe with tags, author and ingredient amounts.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Author").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// List returns one page of recipes, newest first, with the total count.
func (s *RecipeService) List(ctx context.Context, f RecipeFilter) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if f.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		// OR semantics: a recipe matches when it carries any of the slugs.
		tagged := s.db.
			Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if f.FavoritedBy != nil {
		query = query.Where("recipes.id IN (?)", s.relationRecipeIDs(*f.FavoritedBy, models.RelationFavorite))
	}
	if f.InCartOf != nil {
		query = query.Where("recipes.id IN (?)", s.relationRecipeIDs(*f.InCartOf, models.RelationShoppingCart))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := query.
		Preload("Tags").
		Preload("Author").
		Preload("Ingredients.Ingredient").
		Order("recipes.created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&recipes).Error
	return recipes, total, err
}

// ListByAuthor returns up to limit of an author's recipes, newest first.
func (s *RecipeService) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&recipes).Error
	return recipes, err
}

// CountByAuthor returns the author's total recipe count.
func (s *RecipeService) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

func (s *RecipeService) relationRecipeIDs(userID uuid.UUID, kind models.RelationKind) *gorm.DB {
	return s.db.
		Model(&models.UserRecipeRelation{}).
		Select("recipe_id").
		Where("user_id = ? AND kind = ?", userID, kind)
}

func (s *RecipeService) resolveTags(ctx context.Context, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(uniqueUints(ids)) {
		return nil, ErrTagNotFound
	}
	return tags, nil
}

func (s *RecipeService) resolveAmounts(ctx context.Context, in []IngredientAmountInput) ([]models.RecipeIngredient, error) {
	amounts := make([]models.RecipeIngredient, 0, len(in))
	for _, item := range in {
		var ingredient models.Ingredient
		if err := s.db.WithContext(ctx).First(&ingredient, item.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrIngredientNotFound
			}
			return nil, err
		}
		amounts = append(amounts, models.RecipeIngredient{
			IngredientID: ingredient.ID,
			Amount:       item.Amount,
		})
	}
	return amounts, nil
}

func uniqueUints(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

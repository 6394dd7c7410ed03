package models

import (
	"time"

	"github.com/google/uuid"
)

// RelationKind enumerates the ways a user can relate to a recipe.
type RelationKind string

const (
	RelationFavorite     RelationKind = "favorite"
	RelationShoppingCart RelationKind = "shopping_cart"
)

// Label is the human form used in error messages.
func (k RelationKind) Label() string {
	switch k {
	case RelationFavorite:
		return "favorites"
	case RelationShoppingCart:
		return "shopping cart"
	}
	return string(k)
}

// UserRecipeRelation is a membership row: one user relates to one recipe
// in one specific way. Favorite and shopping cart share the table and the
// per-kind uniqueness constraint.
type UserRecipeRelation struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	UserID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_recipe_kind" json:"user_id"`
	RecipeID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_recipe_kind" json:"recipe_id"`
	Kind      RelationKind `gorm:"size:20;not null;uniqueIndex:idx_user_recipe_kind" json:"kind"`
	Recipe    Recipe       `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserRecipeRelation) TableName() string {
	return "user_recipe_relations"
}

package service

import "errors"

var (
	ErrUserExists        = errors.New("user already exists")
	ErrPasswordInUse     = errors.New("a user with this password already exists")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrWrongPassword     = errors.New("current password does not match")
	ErrUserNotFound      = errors.New("user not found")

	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrNotOwner           = errors.New("only the author can modify a recipe")
	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")

	ErrAlreadyInSet = errors.New("recipe already in set")
	ErrNotInSet     = errors.New("recipe not found in set")

	ErrSelfSubscription      = errors.New("subscribing to yourself is not allowed")
	ErrDuplicateSubscription = errors.New("subscription already exists")
	ErrNotSubscribed         = errors.New("author not found in subscriptions")

	ErrInvalidImage = errors.New("invalid image payload")
)

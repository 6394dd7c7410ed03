package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/models"
)

// ---- request payloads ----

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type setPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required,min=8,max=150"`
	CurrentPassword string `json:"current_password" binding:"required,max=150"`
}

type ingredientAmountRequest struct {
	ID     uint `json:"id" binding:"required"`
	Amount int  `json:"amount" binding:"required,min=1"`
}

type recipeRequest struct {
	Ingredients []ingredientAmountRequest `json:"ingredients" binding:"required,dive"`
	Tags        []uint                    `json:"tags" binding:"required"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name" binding:"required,max=200"`
	Text        string                    `json:"text" binding:"required"`
	CookingTime int                       `json:"cooking_time" binding:"required,min=1"`
}

// ---- response shapes ----

type userResponse struct {
	Email        string    `json:"email"`
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

func newUserResponse(u models.User, isSubscribed bool) userResponse {
	return userResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

type recipeIngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type recipeResponse struct {
	ID               uuid.UUID                  `json:"id"`
	Tags             []models.Tag               `json:"tags"`
	Author           userResponse               `json:"author"`
	Ingredients      []recipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

func newRecipeResponse(r models.Recipe, favorited, inCart, authorSubscribed bool) recipeResponse {
	ingredients := make([]recipeIngredientResponse, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		ingredients = append(ingredients, recipeIngredientResponse{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}

	tags := r.Tags
	if tags == nil {
		tags = []models.Tag{}
	}

	return recipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           newUserResponse(r.Author, authorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             r.Name,
		Image:            r.ImageURL,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

type recipeShortResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func newRecipeShortResponse(r models.Recipe) recipeShortResponse {
	return recipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}

type subscriptionResponse struct {
	Email        string                `json:"email"`
	ID           uuid.UUID             `json:"id"`
	Username     string                `json:"username"`
	FirstName    string                `json:"first_name"`
	LastName     string                `json:"last_name"`
	IsSubscribed bool                  `json:"is_subscribed"`
	Recipes      []recipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// ---- helpers ----

// fieldError writes a 400 body keyed by the offending field name.
func fieldError(c *gin.Context, field, message string) {
	c.JSON(http.StatusBadRequest, gin.H{field: []string{message}})
}

// errorsBody writes a 400 body with a single "errors" key.
func errorsBody(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": message})
}

// pagedBody wraps one result page in the list envelope with next and
// previous links, null when the page is the first or last.
func pagedBody(c *gin.Context, count int64, page, limit int, results interface{}) gin.H {
	body := gin.H{
		"count":    count,
		"next":     nil,
		"previous": nil,
		"results":  results,
	}
	if int64(page)*int64(limit) < count {
		body["next"] = pageLink(c, page+1)
	}
	if page > 1 {
		body["previous"] = pageLink(c, page-1)
	}
	return body
}

func pageLink(c *gin.Context, page int) string {
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// pageParams reads page/limit query parameters with sane bounds.
func pageParams(c *gin.Context, defaultLimit int) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
)

// UserHandler serves user accounts, authentication and subscriptions.
type UserHandler struct {
	auth          *service.AuthService
	subscriptions *service.SubscriptionService
	recipes       *service.RecipeService
	pageSize      int
}

func NewUserHandler(auth *service.AuthService, subscriptions *service.SubscriptionService, recipes *service.RecipeService, pageSize int) *UserHandler {
	return &UserHandler{
		auth:          auth,
		subscriptions: subscriptions,
		recipes:       recipes,
		pageSize:      pageSize,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth/login", h.Login)

	users := router.Group("/users")
	{
		users.GET("", middleware.OptionalAuthMiddleware(h.auth), h.ListUsers)
		users.POST("", h.Register)
		users.GET("/me", middleware.AuthMiddleware(h.auth), h.Me)
		users.POST("/set_password", middleware.AuthMiddleware(h.auth), h.SetPassword)
		users.GET("/subscriptions", middleware.AuthMiddleware(h.auth), h.ListSubscriptions)
		users.GET("/:id", middleware.AuthMiddleware(h.auth), h.GetUser)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(h.auth), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(h.auth), h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	switch {
	case errors.Is(err, service.ErrPasswordInUse):
		fieldError(c, "password", "A user with this password already exists.")
		return
	case errors.Is(err, service.ErrUserExists):
		fieldError(c, "username", "A user with this username or email already exists.")
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(*user, false))
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_token": token})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c, h.pageSize)
	users, total, err := h.auth.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	// Authenticated callers see their followed authors marked.
	var authors map[uuid.UUID]bool
	if callerID, ok := middleware.CurrentUserID(c); ok {
		if authors, err = h.subscriptions.AuthorIDs(c.Request.Context(), callerID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
	}

	results := make([]userResponse, 0, len(users))
	for _, u := range users {
		results = append(results, newUserResponse(u, authors[u.ID]))
	}
	c.JSON(http.StatusOK, pagedBody(c, total, page, limit, results))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	user, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, newUserResponse(*user, false))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	callerID, _ := middleware.CurrentUserID(c)
	subscribed, err := h.subscriptions.IsSubscribed(c.Request.Context(), callerID, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, newUserResponse(*user, subscribed))
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req setPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := middleware.CurrentUserID(c)
	err := h.auth.SetPassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, service.ErrWrongPassword):
		fieldError(c, "current_password", "Does not match the current value.")
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	userID, _ := middleware.CurrentUserID(c)
	subscription, err := h.subscriptions.Subscribe(c.Request.Context(), userID, authorID)
	switch {
	case errors.Is(err, service.ErrSelfSubscription):
		fieldError(c, "author", "Subscribing to yourself is not allowed.")
		return
	case errors.Is(err, service.ErrDuplicateSubscription):
		fieldError(c, "author", "This subscription already exists.")
		return
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}

	body, err := h.subscriptionBody(c, *subscription)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}
	c.JSON(http.StatusCreated, body)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	userID, _ := middleware.CurrentUserID(c)
	if err := h.subscriptions.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		if errors.Is(err, service.ErrNotSubscribed) {
			errorsBody(c, "Author not found in subscriptions.")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsubscribe"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	page, limit := pageParams(c, h.pageSize)

	subscriptions, total, err := h.subscriptions.List(c.Request.Context(), userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscriptions"})
		return
	}

	results := make([]subscriptionResponse, 0, len(subscriptions))
	for _, sub := range subscriptions {
		body, err := h.subscriptionBody(c, sub)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscriptions"})
			return
		}
		results = append(results, body)
	}
	c.JSON(http.StatusOK, pagedBody(c, total, page, limit, results))
}

// subscriptionBody builds the subscription read shape: author fields plus
// a capped list of the author's recipes and the total count. The cap
// defaults to the page size and can be overridden with recipes_limit.
func (h *UserHandler) subscriptionBody(c *gin.Context, sub models.Subscription) (subscriptionResponse, error) {
	limit := h.pageSize
	if raw := c.Query("recipes_limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	recipes, err := h.recipes.ListByAuthor(c.Request.Context(), sub.AuthorID, limit)
	if err != nil {
		return subscriptionResponse{}, err
	}
	count, err := h.recipes.CountByAuthor(c.Request.Context(), sub.AuthorID)
	if err != nil {
		return subscriptionResponse{}, err
	}

	short := make([]recipeShortResponse, 0, len(recipes))
	for _, r := range recipes {
		short = append(short, newRecipeShortResponse(r))
	}

	return subscriptionResponse{
		Email:        sub.Author.Email,
		ID:           sub.Author.ID,
		Username:     sub.Author.Username,
		FirstName:    sub.Author.FirstName,
		LastName:     sub.Author.LastName,
		IsSubscribed: true,
		Recipes:      short,
		RecipesCount: count,
	}, nil
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
)

// RecipeHandler serves recipes, membership toggles and the shopping-list
// download.
type RecipeHandler struct {
	recipes       *service.RecipeService
	relations     *service.RelationService
	subscriptions *service.SubscriptionService
	shoppingList  *service.ShoppingListService
	renderer      *service.PDFRenderer
	images        *service.ImageService
	auth          middleware.TokenValidator
	limiter       *middleware.RateLimiter
	pageSize      int
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	relations *service.RelationService,
	subscriptions *service.SubscriptionService,
	shoppingList *service.ShoppingListService,
	renderer *service.PDFRenderer,
	images *service.ImageService,
	auth middleware.TokenValidator,
	limiter *middleware.RateLimiter,
	pageSize int,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:       recipes,
		relations:     relations,
		subscriptions: subscriptions,
		shoppingList:  shoppingList,
		renderer:      renderer,
		images:        images,
		auth:          auth,
		limiter:       limiter,
		pageSize:      pageSize,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.auth), h.ListRecipes)
		recipes.GET("/download_shopping_cart", middleware.AuthMiddleware(h.auth), h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.auth), h.GetRecipe)

		create := []gin.HandlerFunc{middleware.AuthMiddleware(h.auth)}
		if h.limiter != nil {
			create = append(create, h.limiter.Middleware())
		}
		recipes.POST("", append(create, h.CreateRecipe)...)

		recipes.PATCH("/:id", middleware.AuthMiddleware(h.auth), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.auth), h.DeleteRecipe)

		recipes.POST("/:id/favorite", middleware.AuthMiddleware(h.auth), h.relationAdd(models.RelationFavorite))
		recipes.DELETE("/:id/favorite", middleware.AuthMiddleware(h.auth), h.relationRemove(models.RelationFavorite))
		recipes.POST("/:id/shopping_cart", middleware.AuthMiddleware(h.auth), h.relationAdd(models.RelationShoppingCart))
		recipes.DELETE("/:id/shopping_cart", middleware.AuthMiddleware(h.auth), h.relationRemove(models.RelationShoppingCart))
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, limit := pageParams(c, h.pageSize)
	filter := service.RecipeFilter{Page: page, Limit: limit}

	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &id
	}
	if slugs := c.QueryArray("tags"); len(slugs) > 0 {
		filter.TagSlugs = slugs
	}

	// The membership filters require credentials; anonymous callers get
	// the unfiltered set.
	if userID, ok := middleware.CurrentUserID(c); ok {
		if c.Query("is_favorited") == "1" {
			filter.FavoritedBy = &userID
		}
		if c.Query("is_in_shopping_cart") == "1" {
			filter.InCartOf = &userID
		}
	}

	recipes, total, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	results, err := h.serializeRecipes(c, recipes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}
	c.JSON(http.StatusOK, pagedBody(c, total, page, limit, results))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	results, err := h.serializeRecipes(c, []models.Recipe{*recipe})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
		return
	}
	c.JSON(http.StatusOK, results[0])
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Image == "" {
		fieldError(c, "image", "This field is required.")
		return
	}

	imageURL, err := h.images.SaveDataURI(c.Request.Context(), req.Image)
	if err != nil {
		fieldError(c, "image", "Invalid image payload.")
		return
	}

	userID, _ := middleware.CurrentUserID(c)
	recipe, err := h.recipes.Create(c.Request.Context(), userID, recipeInput(req, imageURL))
	if err != nil {
		h.writeRecipeError(c, err)
		return
	}

	results, err := h.serializeRecipes(c, []models.Recipe{*recipe})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe"})
		return
	}
	c.JSON(http.StatusCreated, results[0])
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	imageURL := ""
	if req.Image != "" {
		imageURL, err = h.images.SaveDataURI(c.Request.Context(), req.Image)
		if err != nil {
			fieldError(c, "image", "Invalid image payload.")
			return
		}
	}

	userID, _ := middleware.CurrentUserID(c)
	recipe, err := h.recipes.Update(c.Request.Context(), id, userID, recipeInput(req, imageURL))
	if err != nil {
		h.writeRecipeError(c, err)
		return
	}

	results, err := h.serializeRecipes(c, []models.Recipe{*recipe})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recipe"})
		return
	}
	c.JSON(http.StatusOK, results[0])
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	userID, _ := middleware.CurrentUserID(c)
	if err := h.recipes.Delete(c.Request.Context(), id, userID); err != nil {
		h.writeRecipeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// relationAdd handles POST for one membership kind: 201 with the short
// recipe shape, or a 400 body describing the conflict.
func (h *RecipeHandler) relationAdd(kind models.RelationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		recipeID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
			return
		}

		userID, _ := middleware.CurrentUserID(c)
		recipe, err := h.relations.Add(c.Request.Context(), userID, recipeID, kind)
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			errorsBody(c, "Recipe not found.")
			return
		case errors.Is(err, service.ErrAlreadyInSet):
			errorsBody(c, "Recipe is already in "+kind.Label()+".")
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update " + kind.Label()})
			return
		}

		c.JSON(http.StatusCreated, newRecipeShortResponse(*recipe))
	}
}

func (h *RecipeHandler) relationRemove(kind models.RelationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		recipeID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
			return
		}

		userID, _ := middleware.CurrentUserID(c)
		err = h.relations.Remove(c.Request.Context(), userID, recipeID, kind)
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			errorsBody(c, "Recipe not found.")
			return
		case errors.Is(err, service.ErrNotInSet):
			errorsBody(c, "Recipe not found in "+kind.Label()+".")
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update " + kind.Label()})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	items, err := h.shoppingList.Aggregate(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build shopping list"})
		return
	}

	pdf, err := h.renderer.Render(items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render shopping list"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_cart.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// serializeRecipes fills is_favorited / is_in_shopping_cart and the
// author's is_subscribed for the requesting user, with one lookup per
// set rather than per recipe.
func (h *RecipeHandler) serializeRecipes(c *gin.Context, recipes []models.Recipe) ([]recipeResponse, error) {
	var favorites, cart, authors map[uuid.UUID]bool

	if userID, ok := middleware.CurrentUserID(c); ok {
		var err error
		ctx := c.Request.Context()
		if favorites, err = h.relations.RecipeIDs(ctx, userID, models.RelationFavorite); err != nil {
			return nil, err
		}
		if cart, err = h.relations.RecipeIDs(ctx, userID, models.RelationShoppingCart); err != nil {
			return nil, err
		}
		if authors, err = h.subscriptions.AuthorIDs(ctx, userID); err != nil {
			return nil, err
		}
	}

	results := make([]recipeResponse, 0, len(recipes))
	for _, r := range recipes {
		results = append(results, newRecipeResponse(r,
			favorites[r.ID], cart[r.ID], authors[r.AuthorID]))
	}
	return results, nil
}

func (h *RecipeHandler) writeRecipeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can modify this recipe"})
	case errors.Is(err, service.ErrTagNotFound):
		fieldError(c, "tags", "Tag not found.")
	case errors.Is(err, service.ErrIngredientNotFound):
		fieldError(c, "ingredients", "Ingredient not found.")
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save recipe"})
	}
}

func recipeInput(req recipeRequest, imageURL string) service.RecipeInput {
	ingredients := make([]service.IngredientAmountInput, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		ingredients = append(ingredients, service.IngredientAmountInput{
			ID:     item.ID,
			Amount: item.Amount,
		})
	}
	return service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageURL:    imageURL,
		TagIDs:      req.Tags,
		Ingredients: ingredients,
	}
}

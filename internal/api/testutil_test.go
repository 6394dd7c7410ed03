package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/types"
)

const testPageSize = 6

// testEnv wires the full handler stack onto an in-memory database.
type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	auth   *service.AuthService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Subscription{},
		&models.UserRecipeRelation{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	auth := service.NewAuthService(db, "test-secret")
	catalog := service.NewCatalogService(db)
	recipes := service.NewRecipeService(db)
	relations := service.NewRelationService(db)
	subscriptions := service.NewSubscriptionService(db)
	shoppingList := service.NewShoppingListService(db)
	renderer := service.NewPDFRenderer("")
	images := service.NewImageService(service.NewLocalImageStore(t.TempDir(), "/media"))

	router := gin.New()
	router.Use(gin.Recovery())
	group := router.Group("/api")
	NewUserHandler(auth, subscriptions, recipes, testPageSize).RegisterRoutes(group)
	NewTagHandler(catalog).RegisterRoutes(group)
	NewIngredientHandler(catalog, auth).RegisterRoutes(group)
	NewRecipeHandler(recipes, relations, subscriptions, shoppingList, renderer, images, auth, nil, testPageSize).RegisterRoutes(group)

	return &testEnv{db: db, router: router, auth: auth}
}

// createUser inserts a user directly and returns it with a valid token.
func (e *testEnv) createUser(t *testing.T, username string) (models.User, string) {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "x",
	}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	token, err := e.auth.GenerateToken(&types.TokenClaims{UserID: user.ID, Username: user.Username})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return user, token
}

func (e *testEnv) createTag(t *testing.T, name, slug string) models.Tag {
	t.Helper()

	// Tag colors carry a unique constraint, so derive one per slug.
	tag := models.Tag{Name: name, Color: fmt.Sprintf("#%06X", crc32.ChecksumIEEE([]byte(slug))&0xFFFFFF), Slug: slug}
	if err := e.db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return tag
}

func (e *testEnv) createIngredient(t *testing.T, name, unit string) models.Ingredient {
	t.Helper()

	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := e.db.Create(&ingredient).Error; err != nil {
		t.Fatalf("failed to create test ingredient: %v", err)
	}
	return ingredient
}

// request performs an HTTP round trip through the router. A non-nil body
// is marshalled as JSON; a non-empty token goes into the bearer header.
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

// testImageURI returns a minimal valid PNG as a base64 data URI.
func testImageURI(t *testing.T) string {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// recipeBody builds a valid create/update payload.
func recipeBody(name, imageURI string, tagIDs []uint, ingredients []map[string]interface{}) map[string]interface{} {
	body := map[string]interface{}{
		"name":         name,
		"text":         "Instructions for " + name + ".",
		"cooking_time": 15,
		"tags":         tagIDs,
		"ingredients":  ingredients,
	}
	if imageURI != "" {
		body["image"] = imageURI
	}
	return body
}

package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"sync"

	"wardrobeapi/models"
	"wardrobeapi/services"
	"wardrobeapi/tasks"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CreateClothingIn struct {
	Name        string  `json:"name" validate:"omitempty,max=100"`
	FileName    *string `json:"file_name" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type ClothingResponse struct {
	ID                  uint     `json:"id"`
	Name                string   `json:"name"`
	Description         *string  `json:"description"`
	Category            string   `json:"category"`
	Colors              []string `json:"colors"`
	Styles              []string `json:"styles"`
	Seasons             []string `json:"seasons"`
	Status              string   `json:"status"`
	ProcessingStatus    string   `json:"processing_status"`
	ProcessErrorMessage *string  `json:"process_error_message,omitempty"`
	Uri                 *string  `json:"uri,omitempty"`
	CreatedAt           string   `json:"created_at"`
	UpdatedAt           string   `json:"updated_at"`
}

type ClothingCreatedResponse struct {
	ClothingResponse ClothingResponse `json:"clothes"`
	FileUploadUrl    string           `json:"file_upload_url"`
}

type AnalyzeClothingResponse struct {
	ID               uint   `json:"id"`
	ProcessingStatus string `json:"processing_status"`
	TaskID           string `json:"task_id"`
}

type ClothesController struct {
	AWSService services.AWSServiceProvider
	URLCache   services.URLCacheServiceProvider
}

func (controller *ClothesController) ClothingRoutes(g *echo.Group) {
	g.POST("/create", controller.CreateClothing)
	g.GET("/list", controller.ListClothes)
	g.POST("/:id/analyze", controller.AnalyzeClothing)
}

func toClothingResponse(item models.ClosetItem) ClothingResponse {
	return ClothingResponse{
		ID:                  item.ID,
		Name:                item.Name,
		Description:         item.Description,
		Category:            item.Category,
		Colors:              []string(item.Colors),
		Styles:              []string(item.Styles),
		Seasons:             []string(item.Seasons),
		Status:              item.Status,
		ProcessingStatus:    item.ProcessingStatus,
		ProcessErrorMessage: item.ProcessErrorMessage,
		CreatedAt:           item.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:           item.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// CreateClothing registers an item and returns the upload url for its photo.
// Analysis starts once the app calls /:id/analyze after the upload.
func (controller *ClothesController) CreateClothing(c echo.Context) error {
	var req CreateClothingIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok || db == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	if !services.IsAllowedImage(*req.FileName) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Please upload a jpg, png, heic or webp photo"})
	}
	if controller.AWSService == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Uploads are not available right now"})
	}

	objectKey := fmt.Sprintf("clothes/%v/%s%s", userID, uuid.NewString(), filepath.Ext(*req.FileName))
	uploadUrl, err := controller.AWSService.PresignLink(c.Request().Context(), services.GetEnv("R2_BUCKET_NAME", ""), objectKey)
	if err != nil {
		log.Printf("Unable to presign upload for user %v: %s", userID, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error while creating clothe with attachment"})
	}

	item := models.ClosetItem{
		OwnerID:          userID,
		Name:             req.Name,
		Description:      req.Description,
		Status:           models.ClosetStatusTemporary,
		ProcessingStatus: models.ProcessingIdle,
		ImageURL:         &objectKey,
	}
	if err := db.Create(&item).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save clothe, please try again"})
	}

	return c.JSON(http.StatusCreated, ClothingCreatedResponse{
		ClothingResponse: toClothingResponse(item),
		FileUploadUrl:    uploadUrl,
	})
}

// AnalyzeClothing queues the photo analysis that fills in category, colors,
// styles and seasons.
func (controller *ClothesController) AnalyzeClothing(c echo.Context) error {
	var itemID uint
	if err := echo.PathParamsBinder(c).Uint("id", &itemID).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid clothe id"})
	}
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok || db == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	asynqClient, ok := c.Get("__asynqclient").(tasks.TaskEnqueuer)
	if !ok || asynqClient == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Service is not available, please try again a bit later"})
	}

	var item models.ClosetItem
	err := db.Where("id = ? AND owner_id = ?", itemID, userID).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Clothe not found"})
	}
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get clothe data"})
	}
	if item.ProcessingStatus == models.ProcessingPending {
		return c.JSON(http.StatusConflict, map[string]string{"error": "This clothe is already being analyzed"})
	}

	item.ProcessingStatus = models.ProcessingPending
	item.ProcessRetryTimes = 0
	item.ProcessErrorMessage = nil
	if err := db.Save(&item).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update clothe status, please try again"})
	}
	info, err := tasks.EnqueueClothingAnalysis(c.Request().Context(), asynqClient, item.ID)
	if err != nil {
		sentry.CaptureException(err)
		db.Model(&item).Update("processing_status", models.ProcessingIdle)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Sorry, could not process clothing, please try again"})
	}
	fmt.Println("[Queue] Analyze clothing task submitted, Clothing ID: ", item.ID, " Task ID: ", info.ID)

	return c.JSON(http.StatusAccepted, AnalyzeClothingResponse{
		ID:               item.ID,
		ProcessingStatus: item.ProcessingStatus,
		TaskID:           info.ID,
	})
}

// populatePresignedClothingImages resolves read urls concurrently. A cache
// failure falls back to presigning directly and never fails the listing.
func (controller *ClothesController) populatePresignedClothingImages(ctx context.Context, clothes []models.ClosetItem) []ClothingResponse {
	var wg sync.WaitGroup
	responses := make([]ClothingResponse, len(clothes))
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")

	for i, clothingItem := range clothes {
		wg.Add(1)
		go func(index int, item models.ClosetItem) {
			defer wg.Done()
			response := toClothingResponse(item)
			if item.ImageURL != nil && *item.ImageURL != "" && controller.URLCache != nil {
				objectKey := *item.ImageURL
				url, err := controller.URLCache.GetReadURL(ctx, objectKey)
				if err != nil {
					log.Printf("CACHE WARNING: Cache system failed for key '%s': %v. Triggering manual R2 fallback.", objectKey, err)
					sentry.WithScope(func(scope *sentry.Scope) {
						scope.SetTag("failure_type", "cache_system")
						scope.SetExtra("objectKey", objectKey)
						sentry.CaptureException(err)
					})
					if controller.AWSService != nil {
						url, err = controller.AWSService.GetPresignedR2FileReadURL(ctx, bucketName, objectKey)
						if err != nil {
							log.Printf("CRITICAL: Manual R2 fallback also failed for key '%s': %v", objectKey, err)
							sentry.CaptureException(err)
						}
					}
				}
				if url != "" {
					response.Uri = &url
				}
			}
			responses[index] = response
		}(i, clothingItem)
	}

	wg.Wait()
	return responses
}

func (controller *ClothesController) ListClothes(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok || db == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var clothes []models.ClosetItem
	if err := db.Where("owner_id = ?", userID).Order("created_at desc").Find(&clothes).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch clothes"})
	}
	return c.JSON(http.StatusOK, controller.populatePresignedClothingImages(c.Request().Context(), clothes))
}

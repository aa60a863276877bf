package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wardrobeapi/models"
	"wardrobeapi/services"
	"wardrobeapi/stylist"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

const (
	TypeClothingAnalyze      = "clothing:analyze"
	TypeClothingRequeueStale = "clothing:requeue_stale"

	// QueueGenerate is where model-bound work runs.
	QueueGenerate = "generate"
)

// staleAfter is how long an item may sit in pending before the sweep
// enqueues it again.
const staleAfter = 15 * time.Minute

type ClothingAnalysisPayload struct {
	ClosetItemID uint `json:"closet_item_id"`
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func NewClothingAnalysisTask(closetItemID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(ClothingAnalysisPayload{ClosetItemID: closetItemID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeClothingAnalyze, payload), nil
}

func NewRequeueStaleTask() *asynq.Task {
	return asynq.NewTask(TypeClothingRequeueStale, nil)
}

// EnqueueClothingAnalysis schedules analysis of one closet item.
func EnqueueClothingAnalysis(ctx context.Context, client TaskEnqueuer, closetItemID uint) (*asynq.TaskInfo, error) {
	task, err := NewClothingAnalysisTask(closetItemID)
	if err != nil {
		return nil, err
	}
	return client.EnqueueContext(ctx, task, asynq.MaxRetry(models.MaxProcessRetries), asynq.Queue(QueueGenerate))
}

func getImageForItem(ctx context.Context, urlCache services.URLCacheServiceProvider, item models.ClosetItem) ([]byte, error) {
	if item.ImageURL == nil || *item.ImageURL == "" {
		return nil, fmt.Errorf("[Closet: %v] image URL is nil", item.ID)
	}
	fmt.Printf("[Closet: %v] Request presigned download url.. \n", item.ID)
	fileUrl, err := urlCache.GetReadURL(ctx, *item.ImageURL)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Closet: %v] Error on getting presigned URL for file %s: %w", item.ID, *item.ImageURL, err))
		return nil, err
	}
	fileBytes, err := services.ReadFileFromUrl(ctx, fileUrl)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Closet: %v] Error on downloading file %s: %w", item.ID, *item.ImageURL, err))
		return nil, err
	}
	return fileBytes, nil
}

// HandleClothingAnalysisTask downloads the item photo, asks the model to
// describe it and stores the canonical attributes on the item.
func HandleClothingAnalysisTask(ctx context.Context, t *asynq.Task, db *gorm.DB, analyzer services.LLMProcessor, urlCache services.URLCacheServiceProvider) error {
	var payload ClothingAnalysisPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	fmt.Printf("[Closet: %v] Start Processing\n", payload.ClosetItemID)

	var item models.ClosetItem
	if err := db.WithContext(ctx).First(&item, payload.ClosetItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("[Closet: %v] Item is gone, skipping\n", payload.ClosetItemID)
			return nil
		}
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on retrieving closet item for processing %v: %w", payload.ClosetItemID, err))
		return err
	}
	if item.ProcessingStatus == models.ProcessingCompleted {
		fmt.Printf("[Closet: %v] Already processed\n", item.ID)
		return nil
	}
	if item.ImageURL == nil || !services.IsAllowedImage(*item.ImageURL) {
		saveClothingProcessingFail(db, item, "Unsupported image, please upload a jpg, png, heic or webp photo", false)
		return nil
	}

	image, err := getImageForItem(ctx, urlCache, item)
	if err != nil {
		saveClothingProcessingFail(db, item, "Failed to read your photo, please try again", true)
		return err
	}
	fmt.Printf("[Closet: %v] Downloaded file size: %d bytes\n", item.ID, len(image))

	response, err := analyzer.AnalyzeClothingImage(ctx, image, services.ImageMIMEType(*item.ImageURL, image))
	if err != nil {
		if errors.Is(err, services.ErrContentBlocked) {
			saveClothingProcessingFail(db, item, "Sorry, we cannot process this photo.", false)
			sentry.CaptureException(fmt.Errorf("[Closet: %v] Content blocked: %w", item.ID, err))
			return nil
		}
		fmt.Printf("[Closet: %v] Error on analyzing image: %v\n", item.ID, err)
		saveClothingProcessingFail(db, item, "Failed to analyze your photo, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Closet: %v] Error on analyzing image: %w", item.ID, err))
		return err
	}
	if response == nil {
		saveClothingProcessingFail(db, item, "Failed to analyze your photo, please try again", true)
		return fmt.Errorf("[Closet: %v] response is nil but no error provided", item.ID)
	}

	analysis, err := stylist.ParseItemAnalysis(response.Response)
	if err != nil {
		var parseErr *stylist.ParseError
		if errors.As(err, &parseErr) && parseErr.Outcome == stylist.Declined {
			saveClothingProcessingFail(db, item, "We couldn't find a clothing item in this photo", false)
			return nil
		}
		fmt.Printf("[Closet: %v] Error on parsing %s response %q\n", item.ID, response.Model, response.Response)
		saveClothingProcessingFail(db, item, "Failed to analyze your photo, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Closet: %v] Error on parsing analysis: %w", item.ID, err))
		return err
	}

	ApplyAnalysis(&item, analysis.Canonical(), response)
	if err := db.WithContext(ctx).Save(&item).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on saving closet item %v: %w", item.ID, err))
		return err
	}
	fmt.Printf("[Closet: %v] Processed as %s %v, IT: %d, OT: %d, TT: %d\n", item.ID, item.Category, item.Colors, response.InputTokenCount, response.OutputTokenCount, response.TotalTokenCount)
	return nil
}

// ApplyAnalysis copies canonical attributes and token usage onto item and
// marks it ready for the stylist.
func ApplyAnalysis(item *models.ClosetItem, analysis stylist.ItemAnalysis, response *services.LLMResponse) {
	if analysis.Name != "" {
		item.Name = analysis.Name
	}
	if analysis.Description != "" {
		item.Description = services.StrPointer(analysis.Description)
	}
	item.Category = analysis.Category
	item.Colors = analysis.Colors
	item.Styles = analysis.Styles
	item.Seasons = analysis.Seasons
	item.Status = models.ClosetStatusInCloset
	item.ProcessingStatus = models.ProcessingCompleted
	item.ProcessErrorMessage = nil

	if response != nil {
		item.LLMModel = services.StrPointer(response.Model)
		item.LLMInputTokenCount = &response.InputTokenCount
		item.LLMOutputTokenCount = &response.OutputTokenCount
		item.LLMTotalTokenCount = &response.TotalTokenCount
		item.LLMThoughtsTokenCount = &response.ThoughtsTokenCount
	}
}

func saveClothingProcessingFail(db *gorm.DB, item models.ClosetItem, msg string, shouldRetry bool) error {
	markProcessingFail(&item, msg, shouldRetry)
	if err := db.Save(&item).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Fail Closet %v] Error on saving item for failed status", item.ID))
		return err
	}
	return nil
}

func markProcessingFail(item *models.ClosetItem, msg string, shouldRetry bool) {
	item.ProcessRetryTimes = item.ProcessRetryTimes + 1
	item.ProcessErrorMessage = &msg
	if !shouldRetry || item.ProcessRetryTimes >= models.MaxProcessRetries {
		item.ProcessingStatus = models.ProcessingFailed
	}
}

// HandleRequeueStaleTask enqueues analysis again for items stuck in pending,
// for example after a worker restart lost the original task.
func HandleRequeueStaleTask(ctx context.Context, t *asynq.Task, db *gorm.DB, client TaskEnqueuer) error {
	var items []models.ClosetItem
	err := db.WithContext(ctx).
		Where("processing_status = ? AND updated_at < ? AND process_retry_times < ?", models.ProcessingPending, time.Now().Add(-staleAfter), models.MaxProcessRetries).
		Order("id").
		Limit(100).
		Find(&items).Error
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Requeue] Error fetching stale items: %w", err))
		return err
	}
	fmt.Printf("[Requeue] Found %d stale items\n", len(items))

	for _, item := range items {
		info, err := EnqueueClothingAnalysis(ctx, client, item.ID)
		if err != nil {
			sentry.CaptureException(fmt.Errorf("[Requeue] Error enqueuing item %v: %w", item.ID, err))
			continue
		}
		db.WithContext(ctx).Model(&item).Update("updated_at", time.Now())
		fmt.Printf("[Requeue] Item %v enqueued: %s\n", item.ID, info.ID)
	}
	return nil
}

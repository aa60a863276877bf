package models

import "github.com/lib/pq"

const (
	ClosetStatusTemporary = "temporary"
	ClosetStatusInCloset  = "in_closet"
)

const (
	ProcessingIdle      = "idle"
	ProcessingPending   = "pending"
	ProcessingCompleted = "completed"
	ProcessingFailed    = "failed"
)

// MaxProcessRetries is how many analysis attempts an item gets before it is
// marked failed.
const MaxProcessRetries = 3

type ClosetItem struct {
	JsonModel
	OwnerID             uint           `gorm:"index" json:"-"`
	Name                string         `json:"name"`
	Description         *string        `gorm:"type:text" json:"description"`
	Category            string         `json:"category"` // one of vocab.Categories once analyzed
	Colors              pq.StringArray `gorm:"type:text[]" json:"colors"`
	Styles              pq.StringArray `gorm:"type:text[]" json:"styles"`
	Seasons             pq.StringArray `gorm:"type:text[]" json:"seasons"`
	Status              string         `gorm:"default:in_closet" json:"status"`
	ProcessingStatus    string         `gorm:"default:idle" json:"processing_status"`
	ProcessRetryTimes   int            `json:"process_retry_times"`
	ProcessErrorMessage *string        `json:"process_error_message"`
	ImageURL            *string        `json:"image_url"`

	LLMModel              *string `json:"llm_model"`
	LLMInputTokenCount    *int32  `json:"llm_input_token_usage"`
	LLMOutputTokenCount   *int32  `json:"llm_output_token_usage"`
	LLMTotalTokenCount    *int32  `json:"llm_total_token_usage"`
	LLMThoughtsTokenCount *int32  `json:"llm_thoughts_token_count"`
}

// SavedOutfit is an outfit the user kept. Item ids are stored as strings the
// same way the stylist refers to them.
type SavedOutfit struct {
	JsonModel
	OwnerID  uint           `gorm:"index" json:"-"`
	Occasion string         `json:"occasion"`
	ItemIDs  pq.StringArray `gorm:"type:text[]" json:"item_ids"`
	Notes    *string        `gorm:"type:text" json:"notes"`
}

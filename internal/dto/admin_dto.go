// FILE: internal/dto/admin_dto.go
package dto

import "time"

// --- System Log DTOs ---

// LogListResponse uses string for Id because log IDs are MD5 hashes, not UUIDs.
type LogListResponse struct {
	Id        string    `json:"id"`
	Level     string    `json:"level"`
	Module    string    `json:"module"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details"`
}

// --- Stats DTOs ---

type StatsResponse struct {
	Entries     map[string]int64 `json:"entries"`
	Corrections int64            `json:"corrections"`
	Embeddings  int64            `json:"embeddings"`
}

// --- Correction report DTOs ---

type CorrectionItem struct {
	FromBucket string    `json:"from_bucket"`
	ToBucket   string    `json:"to_bucket"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

type CorrectionReportResponse struct {
	Report      string           `json:"report"`
	Corrections []CorrectionItem `json:"corrections"`
}

type WeeklyReviewRequest struct {
	// Days widens or narrows the review window; zero means the default week.
	Days int `json:"days" validate:"omitempty,min=1,max=90"`
}

type WeeklyReviewResponse struct {
	Review string `json:"review"`
}

package waitlist

import (
	"github.com/royxue/cocomo-waitlist/internal/models"
	"github.com/royxue/cocomo-waitlist/pkg/constants"
)

type CreateWaitlistEntryRequest struct {
	// Email and Type are validated in the service, in that order, so the
	// error messages match the original signup flow instead of the
	// validator's generic wording.
	Email string `json:"email" binding:"omitempty,max=255"`
	Type  string `json:"type"`
}

type WaitlistEntryResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	SignupType string `json:"type"`
	Source     string `json:"source"`
	CreatedAt  string `json:"created_at"`
}

// WaitlistListItem is the admin listing projection: exactly
// {id, email, created_at, source}, nothing else.
type WaitlistListItem struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	Source    string `json:"source"`
}

type WaitlistListResponse struct {
	Count int64              `json:"count"`
	Data  []WaitlistListItem `json:"data"`
}

// ========================================
// Mappers
// ========================================

func ToWaitlistEntryResponse(entry *models.WaitlistEntry) WaitlistEntryResponse {
	if entry == nil {
		return WaitlistEntryResponse{}
	}
	return WaitlistEntryResponse{
		ID:         entry.ID,
		Email:      entry.Email,
		SignupType: entry.SignupType,
		Source:     entry.Source,
		CreatedAt:  entry.CreatedAt.Format(constants.RFC3339DateTimeFormat),
	}
}

func ToWaitlistListItem(entry *models.WaitlistEntry) WaitlistListItem {
	if entry == nil {
		return WaitlistListItem{}
	}
	return WaitlistListItem{
		ID:        entry.ID,
		Email:     entry.Email,
		CreatedAt: entry.CreatedAt.Format(constants.RFC3339DateTimeFormat),
		Source:    entry.Source,
	}
}

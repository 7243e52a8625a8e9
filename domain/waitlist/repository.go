package waitlist

import (
	"context"
	"errors"

	"github.com/royxue/cocomo-waitlist/internal/models"
	apperrors "github.com/royxue/cocomo-waitlist/pkg/errors"
	"gorm.io/gorm"
)

type WaitlistRepository interface {
	// CreateEntry persists a new waitlist entry. A unique-index violation is
	// reported as a conflict error with the user-facing duplicate message.
	CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error)
	// FindEntryByEmail returns the first entry with the given email across
	// all signup types, or (nil, nil) when none exists.
	FindEntryByEmail(ctx context.Context, email string) (*models.WaitlistEntry, error)
	// FindEntryByEmailAndType returns the entry for the (email, type) pair,
	// or (nil, nil) when none exists.
	FindEntryByEmailAndType(ctx context.Context, email, signupType string) (*models.WaitlistEntry, error)
	// ListEntries returns all entries ordered by created_at descending,
	// together with a count derived from the same result set.
	ListEntries(ctx context.Context) ([]*models.WaitlistEntry, int64, error)
}

type waitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (wr *waitlistRepository) CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	if err := wr.db.WithContext(ctx).Create(entry).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.NewConflictError(MsgAlreadyRegistered, err)
		}
		return nil, apperrors.NewDatabaseError(MsgSignupFailed, err)
	}

	return entry, nil
}

func (wr *waitlistRepository) FindEntryByEmail(ctx context.Context, email string) (*models.WaitlistEntry, error) {
	var entry models.WaitlistEntry

	err := wr.db.WithContext(ctx).
		Where("email = ?", email).
		Limit(1).
		First(&entry).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.NewDatabaseError(MsgSignupFailed, err)
	}

	return &entry, nil
}

func (wr *waitlistRepository) FindEntryByEmailAndType(ctx context.Context, email, signupType string) (*models.WaitlistEntry, error) {
	var entry models.WaitlistEntry

	err := wr.db.WithContext(ctx).
		Where("email = ? AND signup_type = ?", email, signupType).
		Limit(1).
		First(&entry).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.NewDatabaseError(MsgSignupFailed, err)
	}

	return &entry, nil
}

func (wr *waitlistRepository) ListEntries(ctx context.Context) ([]*models.WaitlistEntry, int64, error) {
	var entries []*models.WaitlistEntry

	if err := wr.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, 0, apperrors.NewDatabaseError(MsgListFailed, err)
	}

	// Single query, so the count can never disagree with the rows even
	// when an insert lands mid-listing.
	return entries, int64(len(entries)), nil
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateKeyError(err)
}

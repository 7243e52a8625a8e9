package waitlist

import (
	"context"
	"strings"
	"time"

	"github.com/royxue/cocomo-waitlist/internal/log"
	"github.com/royxue/cocomo-waitlist/internal/models"
	apperrors "github.com/royxue/cocomo-waitlist/pkg/errors"
	"github.com/royxue/cocomo-waitlist/pkg/utils"
)

// UniquenessScope controls how far a duplicate signup reaches.
type UniquenessScope string

const (
	// UniquenessPerEmail rejects any second signup with the same email,
	// regardless of signup type.
	UniquenessPerEmail UniquenessScope = "email"
	// UniquenessPerEmailType allows the same email once per signup type.
	// This is the default: the angel page is a separate list.
	UniquenessPerEmailType UniquenessScope = "email_type"
)

// UniquenessScopeFromEnv reads WAITLIST_UNIQUENESS, defaulting to per
// (email, type). Unknown values fall back to the default.
func UniquenessScopeFromEnv() UniquenessScope {
	switch utils.GetEnvTrimmed("WAITLIST_UNIQUENESS") {
	case string(UniquenessPerEmail):
		return UniquenessPerEmail
	default:
		return UniquenessPerEmailType
	}
}

type WaitlistService interface {
	// CreateEntry validates and persists one signup. Duplicate signups,
	// scoped per the configured uniqueness policy, are rejected with a
	// conflict error.
	CreateEntry(ctx context.Context, req *CreateWaitlistEntryRequest) (*WaitlistEntryResponse, error)

	// ListEntries returns every signup, newest first, with the total count.
	ListEntries(ctx context.Context) (*WaitlistListResponse, error)
}

type waitlistService struct {
	logger     *log.Logger
	repository WaitlistRepository
	scope      UniquenessScope
}

func NewWaitlistService(logger *log.Logger, repository WaitlistRepository, scope UniquenessScope) WaitlistService {
	if scope == "" {
		scope = UniquenessPerEmailType
	}
	return &waitlistService{logger: logger, repository: repository, scope: scope}
}

func (s *waitlistService) CreateEntry(ctx context.Context, req *CreateWaitlistEntryRequest) (*WaitlistEntryResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("CreateEntry received empty request")
		return nil, apperrors.NewInvalidRequestError(MsgEmailRequired, nil)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewInvalidRequestError(MsgEmailRequired, nil)
	}

	signupType, err := resolveSignupType(req.Type)
	if err != nil {
		return nil, err
	}

	existing, err := s.findExisting(ctx, email, signupType)
	if err != nil {
		logger.Error("Duplicate check failed", "error", err)
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError(MsgAlreadyRegistered, nil)
	}

	// The check above is not atomic with the insert. Two concurrent
	// identical signups can both pass it; the unique index on
	// (email, signup_type) decides, and the loser surfaces as a conflict.
	entry := &models.WaitlistEntry{
		Email:      email,
		SignupType: signupType,
		Source:     models.SourceForType(signupType),
		CreatedAt:  time.Now().UTC(),
	}

	created, err := s.repository.CreateEntry(ctx, entry)
	if err != nil {
		logger.Error("Failed to create waitlist entry", "error", err)
		return nil, err
	}

	logger.Info("Waitlist signup", "source", created.Source)

	response := ToWaitlistEntryResponse(created)
	return &response, nil
}

func (s *waitlistService) ListEntries(ctx context.Context) (*WaitlistListResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	entries, count, err := s.repository.ListEntries(ctx)
	if err != nil {
		logger.Error("Failed to list waitlist entries", "error", err)
		return nil, err
	}

	items := make([]WaitlistListItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, ToWaitlistListItem(entry))
	}

	return &WaitlistListResponse{Count: count, Data: items}, nil
}

func (s *waitlistService) findExisting(ctx context.Context, email, signupType string) (*models.WaitlistEntry, error) {
	if s.scope == UniquenessPerEmail {
		return s.repository.FindEntryByEmail(ctx, email)
	}
	return s.repository.FindEntryByEmailAndType(ctx, email, signupType)
}

func resolveSignupType(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return models.SignupTypeRegular, nil
	case models.SignupTypeRegular:
		return models.SignupTypeRegular, nil
	case models.SignupTypeAngel:
		return models.SignupTypeAngel, nil
	default:
		return "", apperrors.NewInvalidRequestError(MsgInvalidType, nil)
	}
}

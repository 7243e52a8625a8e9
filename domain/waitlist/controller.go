package waitlist

import (
	"time"

	"github.com/royxue/cocomo-waitlist/config/router"
	"github.com/royxue/cocomo-waitlist/internal/log"
	apperrors "github.com/royxue/cocomo-waitlist/pkg/errors"
	"github.com/royxue/cocomo-waitlist/pkg/ratelimit"
	"gorm.io/gorm"
)

func NewWaitlistController(
	db *gorm.DB,
	logger *log.Logger,
) *router.RESTController {

	return router.NewVersionedRESTController(
		"WaitlistController",
		"v1",
		"/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			repository := NewWaitlistRepository(db)
			service := NewWaitlistService(logger, repository, UniquenessScopeFromEnv())

			signupLimiter := createSignupRateLimiter()

			rs.AddPostHandler(c, signupLimiter, "", createWaitlistEntryHandler(service))
			rs.AddGetHandler(c, nil, "", listWaitlistEntriesHandler(service))
		},
	)
}

func createSignupRateLimiter() ratelimit.RateLimiter {
	// The signup form retries at human speed; anything faster is abuse.
	const signupRequestsPerMinute = 30

	config := &ratelimit.RateLimitConfig{
		Requests: signupRequestsPerMinute,
		Window:   time.Minute,
		Redis:    nil,
		Logger:   nil,
	}

	return ratelimit.NewRateLimiter(config)
}

func createWaitlistEntryHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req CreateWaitlistEntryRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.CreateEntry(ctx.Request.Context(), &req)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return &router.ServiceResult{
			StatusCode: apperrors.StatusCreated,
			Data:       response,
			Message:    MsgSignupComplete,
		}
	}
}

func listWaitlistEntriesHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		response, err := service.ListEntries(ctx.Request.Context())
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.OKResult(response, "Waitlist entries retrieved successfully")
	}
}

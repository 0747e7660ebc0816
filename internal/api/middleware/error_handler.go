package middleware

import (
	stderrors "errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"studyforge/internal/api/errors"
	"studyforge/internal/app/auth"
	"studyforge/internal/app/pipeline"
	"studyforge/internal/app/repository"
	"studyforge/internal/app/sharing"
)

// ErrorHandler middleware handles errors consistently across the API
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := c.GetString("request_id")

		var apiErr *errors.APIError

		switch err := recovered.(type) {
		case *errors.APIError:
			apiErr = err
			apiErr.RequestID = requestID
		case error:
			// Log the original error for debugging
			logger.Error("Internal server error",
				"error", err.Error(),
				"request_id", requestID,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)

			// Return a generic internal error to the client
			apiErr = &errors.APIError{
				Kind:      errors.KindInternal,
				Message:   "Internal server error",
				RequestID: requestID,
			}
		default:
			// Handle panics that aren't errors
			logger.Error("Unknown panic occurred",
				"recovered", recovered,
				"request_id", requestID,
			)

			apiErr = &errors.APIError{
				Kind:      errors.KindInternal,
				Message:   "Internal server error",
				RequestID: requestID,
			}
		}

		// Set response headers
		c.Header("Content-Type", "application/json")

		// Return the error response
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
	})
}

// HandleError is a helper function for handlers to return errors
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	apiErr, ok := err.(*errors.APIError)
	if !ok {
		apiErr = mapDomainError(err)
	}
	if apiErr != nil {
		requestID := c.GetString("request_id")
		apiErr.RequestID = requestID
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
		return
	}

	// If it's not a recognized error, panic so the error middleware can handle it
	panic(err)
}

// mapDomainError translates lower-layer sentinel errors to API errors.
// Returns nil for errors with no HTTP meaning.
func mapDomainError(err error) *errors.APIError {
	switch {
	case stderrors.Is(err, repository.ErrProjectNotFound):
		return errors.NewNotFoundError("project")
	case stderrors.Is(err, repository.ErrGroupNotFound):
		return errors.NewNotFoundError("group")
	case stderrors.Is(err, repository.ErrRequestNotFound):
		return errors.NewNotFoundError("join request")
	case stderrors.Is(err, repository.ErrRequestPending):
		return errors.NewConflictError("A join request is already pending")
	case stderrors.Is(err, repository.ErrGroupFull):
		return errors.NewConflictError("Group has reached its member limit")
	case stderrors.Is(err, repository.ErrPhaseOrder):
		return errors.NewConflictError("Content generation requires a completed transcription")
	case stderrors.Is(err, sharing.ErrForbidden):
		return errors.NewForbiddenError("You do not have permission to perform this action")
	case stderrors.Is(err, sharing.ErrNotAMember):
		return errors.NewBadRequestError("User is not a member of this group")
	case stderrors.Is(err, sharing.ErrSelfJoin):
		return errors.NewBadRequestError("You cannot join your own group")
	case stderrors.Is(err, pipeline.ErrUnknownJob):
		return errors.NewBadRequestError("Unknown generation job")
	case stderrors.Is(err, pipeline.ErrJobNotApplicable):
		return errors.NewBadRequestError("This job does not apply to the project's media kind")
	case stderrors.Is(err, pipeline.ErrScenarioCapReached):
		return errors.NewConflictError("Clinical scenario limit reached")
	case stderrors.Is(err, pipeline.ErrBadDifficulty):
		return errors.NewBadRequestError("Invalid difficulty")
	case stderrors.Is(err, pipeline.ErrNothingToGenerate):
		return errors.NewConflictError("No missing features to generate for this plan")
	case stderrors.Is(err, auth.ErrUnauthenticated):
		return errors.NewUnauthorizedError("Authentication required")
	default:
		return nil
	}
}

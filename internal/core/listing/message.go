package listing

import (
	"context"
	"errors"

	"github.com/retailcatalog/admin-console/internal/core/domain"
)

// publicError is implemented by collaborator errors that carry a message
// safe to show to the user.
type publicError interface {
	PublicMessage() string
}

// Message turns an error into the text shown inline on a list screen.
func Message(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, domain.ErrForbidden):
		return "You do not have permission to perform this action."
	case errors.Is(err, domain.ErrUnauthenticated):
		return "Your session has ended. Please sign in again."
	case errors.Is(err, domain.ErrNotFound):
		return "The requested item no longer exists."
	case errors.Is(err, context.DeadlineExceeded):
		return "The catalog service did not respond in time."
	}

	var pe publicError
	if errors.As(err, &pe) && pe.PublicMessage() != "" {
		return pe.PublicMessage()
	}
	return "The catalog service is unavailable. Please try again."
}

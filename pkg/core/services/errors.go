package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
)

var (
	errLinkNotFound = domain.NotFoundError("Link not found")
	errUserNotFound = domain.NotFoundError("User not found")
)

// storageError passes core errors through and hides everything else behind
// an InternalError.
func storageError(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.InternalError(err)
}

// validID reports whether id can name a stored entity. Malformed ids are
// treated as absent rather than as bad input.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

package auth

import (
	"github.com/google/uuid"

	"tasknest/internal/utils/apierrors"
)

// AuthorizeOwner checks that the authenticated user may act on the resources
// under pathUserID. The path value is parsed and canonicalized before
// comparison so "ABC..." and "abc..." name the same user.
func AuthorizeOwner(authenticated uuid.UUID, pathUserID string) (uuid.UUID, error) {
	target, err := uuid.Parse(pathUserID)
	if err != nil {
		return uuid.Nil, apierrors.New(apierrors.LayerMiddleware, apierrors.TypeValidation,
			"INVALID_USER_ID_FORMAT", "user id in path is not a valid UUID", err)
	}
	if target != authenticated {
		return uuid.Nil, apierrors.New(apierrors.LayerMiddleware, apierrors.TypeForbidden,
			"ACCESS_DENIED", "you may only access your own resources", nil)
	}
	return target, nil
}

package auth

import "errors"

// ErrForbidden means the acting user is authenticated but does not own the
// resource being mutated.
var ErrForbidden = errors.New("not authorized to perform requested action")

// AuthorizeMutation is the single ownership check applied before every
// update or delete of an owned resource: allowed iff the acting user is the
// owner. There is no role hierarchy or admin override.
func AuthorizeMutation(resourceOwnerID, actingUserID uint) error {
	if resourceOwnerID != actingUserID {
		return ErrForbidden
	}
	return nil
}

package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
// Foreign-owned requests are reported with this error as well, so the
// API never discloses whether the row exists.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInactiveAccount indicates the employee exists but is not active.
var ErrInactiveAccount = errors.New("account is not active")

// ErrForbidden indicates the caller may not perform this operation.
var ErrForbidden = errors.New("forbidden")

// ErrNotEditable indicates an edit was attempted on a request that has left the pending window.
var ErrNotEditable = errors.New("request is no longer editable")

// ErrAlreadyReviewed indicates a review was attempted on a non-pending request.
var ErrAlreadyReviewed = errors.New("request already reviewed")

// ErrUnsupportedMedia indicates a file whose extension is outside the allowed set.
var ErrUnsupportedMedia = errors.New("unsupported media kind")

// ErrQuotaExceeded indicates a media cap was hit (car-wash slots, inspection images/videos).
var ErrQuotaExceeded = errors.New("media quota exceeded")

// ErrUnknownVehicle indicates the referenced vehicle does not exist.
var ErrUnknownVehicle = errors.New("unknown vehicle")

package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrValidation    = errors.New("validation failed")
	ErrUnrecoverable = errors.New("unrecoverable")

	ErrEventNotFound       = fmt.Errorf("event %w", ErrNotFound)
	ErrGuestNotFound       = fmt.Errorf("guest %w", ErrNotFound)
	ErrGalleryItemNotFound = fmt.Errorf("gallery item %w", ErrNotFound)
	ErrCapturePlanNotFound = fmt.Errorf("capture plan %w", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)

	ErrInvalidTier  = fmt.Errorf("%w: invalid guest tier", ErrValidation)
	ErrPlanNotFound = fmt.Errorf("%w: capture plan not found", ErrUnrecoverable)

	// ErrUserHasEvents blocks user deletion while the user still owns events.
	ErrUserHasEvents = errors.New("user still owns events")
)

// DuplicateDeviceError is returned when a device already registered a guest
// for the event.
type DuplicateDeviceError struct {
	Nickname string
}

func (e *DuplicateDeviceError) Error() string {
	return fmt.Sprintf("this device is already registered as %q", e.Nickname)
}

// ValidationError wraps a field level failure so callers can match ErrValidation.
func ValidationError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

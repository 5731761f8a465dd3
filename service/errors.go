package service

import (
	"errors"
	"fmt"

	"github.com/ewhacare/accessdesk/repo"
)

var (
	// ErrInvalidInput wraps every validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is repo.ErrNotFound re-exported for handlers.
	ErrNotFound = repo.ErrNotFound
	// ErrDuplicateSlot rejects featured slots naming the same post twice.
	ErrDuplicateSlot = errors.New("featured slots must reference distinct posts")
	// ErrUnknownSlotPost rejects featured slots naming a missing post.
	ErrUnknownSlotPost = errors.New("featured slot references a missing post")
	// ErrTooLarge is returned when a post's files exceed the size ceiling.
	ErrTooLarge = errors.New("content exceeds the size limit")
	// ErrTooManyImages is returned when the body embeds too many images.
	ErrTooManyImages = errors.New("too many body images")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

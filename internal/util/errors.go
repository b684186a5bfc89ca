package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrLessonNotFound = errors.New("lesson not found")
	ErrTaskNotFound   = errors.New("task not found")

	// ErrLessonResolution means an attempt could not be tied to any lesson,
	// neither via its own lesson_id nor through its task. The ingestion
	// transaction must roll back without partial aggregates.
	ErrLessonResolution = errors.New("attempt cannot be resolved to a lesson")

	ErrInvalidInput        = errors.New("invalid input")
	ErrProviderUnavailable = errors.New("external provider unavailable")
)

// Package services defines the business logic for conversation turns,
// vocabulary, progress, and settings. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

var (
	// ErrEmptyPrompt is returned when a conversation turn carries an
	// empty or whitespace-only utterance.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrTooLong is returned when an utterance exceeds the maximum
	// configured length limit.
	ErrTooLong = errors.New("prompt too long")

	// ErrTurnInFlight is returned when a new conversation turn is started
	// while a previous turn is still awaiting its tutor reply. Turns are
	// strictly serialized.
	ErrTurnInFlight = errors.New("a conversation turn is already in flight")

	// ErrWordNotFound indicates that the requested vocabulary word does
	// not exist.
	ErrWordNotFound = errors.New("vocabulary word not found")

	// ErrEmptyWord is returned when a vocabulary entry is submitted with
	// a blank word key.
	ErrEmptyWord = errors.New("word is empty")

	// ErrInvalidMode is returned when a settings update names a
	// conversation mode outside the defined set.
	ErrInvalidMode = errors.New("unknown conversation mode")

	// ErrInvalidTheme is returned when a settings update names a theme
	// outside light, dark, or system.
	ErrInvalidTheme = errors.New("theme must be light, dark, or system")

	// ErrSpeechRange is returned when speech rate or voice pitch falls
	// outside the supported 0.5 to 2.0 range.
	ErrSpeechRange = errors.New("speech rate and pitch must be between 0.5 and 2.0")

	// ErrInvalidMinutes is returned when a spoken-minutes report is zero
	// or negative.
	ErrInvalidMinutes = errors.New("minutes must be positive")
)

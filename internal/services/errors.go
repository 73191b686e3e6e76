package services

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnderAge            = errors.New("must be 18 or older")
	ErrEmptyMessage        = errors.New("message content is empty")
	ErrEventExpired        = errors.New("event has expired")
	ErrChatLimitReached    = errors.New("daily chat limit reached")
	ErrOwnEvent            = errors.New("cannot join own event")
	ErrResolveParticipants = errors.New("could not resolve participants")
	ErrAlreadyConnected    = errors.New("already connected or already requested")
	ErrSelfMatch           = errors.New("cannot vibe with yourself")
	ErrNotParticipant      = errors.New("not a chat participant")
	ErrForbidden           = errors.New("not allowed")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

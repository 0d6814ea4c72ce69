package services

import "errors"

// Domain errors surfaced to the HTTP boundary. Everything here maps to a
// client-facing 400; anything else is a server failure.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrConflict             = errors.New("conflict")
	ErrConversationNotFound = errors.New("conversation does not exist")
	ErrMessageNotFound      = errors.New("message does not exist")
	ErrReadNotFound         = errors.New("conversation read does not exist")
	ErrFastMessageNotFound  = errors.New("fast message not found")
	ErrCrossConversation    = errors.New("message does not belong to the conversation read")
)

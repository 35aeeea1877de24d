// Package service contains the business logic of the application: accounts
// with soft deletion, rate-limited API tokens, file storage and room
// membership. Every exported operation runs as a single transaction against
// the database and reports failures through the sentinel errors below so
// that callers can map them to status codes without parsing messages.
package service

import "errors"

var (
	ErrAccountExists     = errors.New("account already exists")
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountNotDeleted = errors.New("account is not deleted")

	ErrTokenExists    = errors.New("token already issued")
	ErrTokenNotFound  = errors.New("token not found")
	ErrTokenExhausted = errors.New("token has no uses left")

	ErrFileNotFound   = errors.New("file not found")
	ErrFileNotDeleted = errors.New("file is not deleted")

	ErrRoomExists      = errors.New("room with these members already exists")
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomTooSmall    = errors.New("a room needs at least two members")
	ErrMemberExists    = errors.New("user is already a member of this room")
	ErrMemberNotFound  = errors.New("user is not a member of this room")
	ErrSwitchInvalid   = errors.New("invalid switch value")
	ErrOwnerUnresolved = errors.New("no owner given")
)

// Package services defines the business logic for authentication, chats,
// messages, conversions, and uploads. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the handler
// layer.
package services

import "errors"

// Chat and message errors.
var (
	// ErrChatNotFound indicates that the requested chat does not exist or is
	// not accessible to the current user.
	ErrChatNotFound = errors.New("chat not found")

	// ErrEmptyTitle is returned when a chat is created without a title.
	ErrEmptyTitle = errors.New("title is required")

	// ErrEmptyContent is returned when a message or conversion request carries
	// no content.
	ErrEmptyContent = errors.New("content is required")

	// ErrInvalidRole is returned when a message role is outside
	// {user, assistant}.
	ErrInvalidRole = errors.New("role must be user or assistant")
)

// Credential errors.
var (
	// ErrInvalidCredentials covers unknown email and wrong password alike, so
	// login failures do not reveal which one occurred.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken indicates a signup with an already-registered email.
	ErrEmailTaken = errors.New("user already exists with this email")

	// ErrNameTooShort is returned when a signup name has fewer than 2 characters.
	ErrNameTooShort = errors.New("name must be at least 2 characters")

	// ErrInvalidEmail is returned when a signup email fails format validation.
	ErrInvalidEmail = errors.New("please provide a valid email")

	// ErrPasswordTooShort is returned when a signup password has fewer than
	// 6 characters.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)

// Upload errors.
var (
	// ErrNoFile is returned when the upload request carries no file part.
	ErrNoFile = errors.New("no file uploaded")

	// ErrFileTooLarge is returned when the file exceeds the configured limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedFileType is returned when the sniffed content type maps to
	// no known mode.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrUploadNotFound indicates a missing or foreign-owned upload record.
	ErrUploadNotFound = errors.New("file not found")
)

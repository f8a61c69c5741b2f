package viewmodel

import "errors"

var (
	// ErrEmptyInput indicates blank user input, which is ignored
	ErrEmptyInput = errors.New("empty input")

	// ErrNoActiveConversation indicates the view model has no active conversation
	ErrNoActiveConversation = errors.New("no active conversation")

	// ErrNoStore indicates the view model was built without a store
	ErrNoStore = errors.New("store is required")

	// ErrServerIDAssigned indicates the conversation is already linked to another server conversation
	ErrServerIDAssigned = errors.New("server conversation id already assigned")

	// ErrNoOpener indicates the view model was built without a stream opener
	ErrNoOpener = errors.New("stream opener is required")
)

// DefaultFallbackText is committed when a stream fails before any content.
const DefaultFallbackText = "An error occurred: connection interrupted"

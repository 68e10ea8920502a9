package websocket

// Action constants for WebSocket messages
const (
	// Health
	ActionHealthCheck = "health.check"

	// Notification actions (server -> client), mirroring bus event types
	ActionPromptCreated   = "prompt.created"
	ActionPromptUpdated   = "prompt.updated"
	ActionPromptDeleted   = "prompt.deleted"
	ActionPromptReordered = "prompt.reordered"
	ActionPromptSaved     = "prompt.saved"

	ActionSettingsUpdated = "settings.updated"
	ActionSettingsDeleted = "settings.deleted"

	ActionProjectCreated = "project.created"
	ActionProjectUpdated = "project.updated"
	ActionProjectDeleted = "project.deleted"

	ActionContentIdeaCreated = "content_idea.created"
	ActionContentIdeaUpdated = "content_idea.updated"
	ActionContentIdeaDeleted = "content_idea.deleted"
)

// Error codes
const (
	ErrorCodeBadRequest    = "BAD_REQUEST"
	ErrorCodeNotFound      = "NOT_FOUND"
	ErrorCodeInternalError = "INTERNAL_ERROR"
	ErrorCodeUnauthorized  = "UNAUTHORIZED"
	ErrorCodeValidation    = "VALIDATION_ERROR"
	ErrorCodeUnknownAction = "UNKNOWN_ACTION"
)

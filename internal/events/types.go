// Package events provides event types and utilities for the ArtFlow event system.
package events

// Event types for prompts
const (
	PromptCreated   = "prompt.created"
	PromptUpdated   = "prompt.updated"
	PromptDeleted   = "prompt.deleted"
	PromptReordered = "prompt.reordered"
	PromptSaved     = "prompt.saved"
)

// Event types for user settings
const (
	SettingsUpdated = "settings.updated"
	SettingsDeleted = "settings.deleted"
)

// Event types for projects
const (
	ProjectCreated = "project.created"
	ProjectUpdated = "project.updated"
	ProjectDeleted = "project.deleted"
)

// Event types for content ideas
const (
	ContentIdeaCreated = "content_idea.created"
	ContentIdeaUpdated = "content_idea.updated"
	ContentIdeaDeleted = "content_idea.deleted"
)

// Event types for users
const (
	UserRegistered = "user.registered"
)

// Wildcard subjects the WebSocket gateway subscribes to.
const (
	AllPromptEvents      = "prompt.*"
	AllSettingsEvents    = "settings.*"
	AllProjectEvents     = "project.*"
	AllContentIdeaEvents = "content_idea.*"
)

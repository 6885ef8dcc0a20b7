package config

const (
	// MaxDocumentTitleLength is the maximum length for document titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (titles should be short and descriptive).
	MaxDocumentTitleLength = 255

	// MaxChatTitleLength is the maximum length for chat titles.
	// Same bound as document titles for consistency.
	MaxChatTitleLength = 255

	// MaxListLimit caps list endpoints that accept a limit parameter.
	MaxListLimit = 1000
)

package config

const (
	// MaxDocumentNameLength is the maximum length for document names.
	// Limited to 255 to fit in VARCHAR(255) columns.
	MaxDocumentNameLength = 255

	// MaxCompanyNameLength bounds company and project names on documents and settings.
	MaxCompanyNameLength = 255

	// MaxClientMessageLength bounds the explanation a client attaches to a decision.
	MaxClientMessageLength = 5000

	// MaxNoteLength bounds notes sent to the AI collaborators (about 100k words).
	MaxNoteLength = 500_000

	// MaxLogoLength bounds the settings logo, stored as a data URL.
	MaxLogoLength = 2 << 20

	// MaxAudioUploadBytes bounds transcription uploads.
	MaxAudioUploadBytes = 25 << 20
)

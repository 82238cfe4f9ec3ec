package constant

// Study session lifecycle statuses.
const (
	SessionStatusPending    = "pending"
	SessionStatusProcessing = "processing"
	SessionStatusCompleted  = "completed"
	SessionStatusFailed     = "failed"
)

// Session source kinds.
const (
	SourceKindDocument = "document"
	SourceKindTopic    = "topic"
)

// Processing modes recorded on the session after extraction.
const (
	ProcessingModeText = "text"
	ProcessingModeOCR  = "ocr"
	ProcessingModeAI   = "ai"
)

// Watermill topic for queued processing jobs.
const TopicProcessSession = "PROCESS_SESSION"

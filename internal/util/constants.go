package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	MimeImage       = "image/"
	MimeOctetStream = "application/octet-stream"
)

var AllowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// Throttled actions, shared between the limiter config and the handlers.
const (
	ActionStartQuiz    = "start-quiz"
	ActionQuestionFeed = "question-feed"
	ActionShareResult  = "share-result"
)

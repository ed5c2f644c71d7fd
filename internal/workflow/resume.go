package workflow

import (
	"errors"
	"fmt"
)

// MaxResumeSize is the largest resume upload accepted, in bytes (5 MiB).
const MaxResumeSize = 5 * 1024 * 1024

// resumeContentTypes are the MIME types a resume upload may carry.
var resumeContentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

var (
	// ErrResumeType is wrapped by ValidateResume when the MIME type is not allowed.
	ErrResumeType = errors.New("resume must be a PDF or Word document")
	// ErrResumeSize is wrapped by ValidateResume when the file exceeds MaxResumeSize.
	ErrResumeSize = errors.New("resume file is too large")
)

// ValidateResume checks an upload against the type and size constraints
// before anything is written. Each violation carries a message naming the
// violated rule so the caller can surface it verbatim.
func ValidateResume(contentType string, size int64) error {
	if !resumeContentTypes[contentType] {
		return fmt.Errorf("%w: got %q, allowed types are PDF, DOC and DOCX", ErrResumeType, contentType)
	}
	if size > MaxResumeSize {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrResumeSize, size, MaxResumeSize)
	}
	return nil
}

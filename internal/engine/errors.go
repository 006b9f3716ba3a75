package engine

import "errors"

// Error kinds signaled to callers. All are local, recoverable
// conditions; none are fatal to the process. Callers test with
// errors.Is.
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionCompleted   = errors.New("session already completed")
	ErrDuplicateAnswer    = errors.New("question already answered in this session")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrResultNotAvailable = errors.New("result not available: session is not completed")
	ErrResultNotFound     = errors.New("result not found")
	ErrInvalidLevel       = errors.New("option level outside the 1-12 scale")
	ErrInvalidMode        = errors.New("invalid test mode")
	ErrInvalidStatus      = errors.New("invalid relationship status")
)

package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrPermissionDenied = errors.New("permission denied")

	ErrQuestionNotFound = errors.New("question not found")
	ErrSessionNotFound  = errors.New("quiz session not found")
	ErrSessionFinished  = errors.New("quiz session already finished")
	ErrNotAccepting     = errors.New("session is not accepting answers")
	ErrSkipNotAllowed   = errors.New("skipping is disabled for this quiz")
	ErrNoQuestions      = errors.New("no questions match the requested filters")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrChallengeLocked  = errors.New("challenge mode requires an average score of 70 or higher")
)

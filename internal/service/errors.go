package service

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrAlreadyStarted     = errors.New("session already started")
	ErrSessionFull        = errors.New("session is full")
	ErrNotHost            = errors.New("only the host may start the session")
	ErrPlayerNotInSession = errors.New("player is not in this session")
	ErrQuestionMismatch   = errors.New("submitted question is not the current question")
	ErrNotEnoughQuestions = errors.New("not enough eligible questions in the curriculum")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

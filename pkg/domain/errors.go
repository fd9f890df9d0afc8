package domain

import "errors"

// ErrQuestionnaireInvalid is returned when a configuration document fails validation.
var ErrQuestionnaireInvalid = errors.New("questionnaire invalid")

// ErrUnknownQuestion is returned when a question id is not declared in the questionnaire.
var ErrUnknownQuestion = errors.New("unknown question")

// ErrUnknownOption is returned when an option id does not belong to the question.
var ErrUnknownOption = errors.New("unknown option")

// ErrNotCurrentQuestion is returned when answering a question other than the current one.
var ErrNotCurrentQuestion = errors.New("question is not the current question")

// ErrNoAnswer is returned when advancing without an answer for the current question.
var ErrNoAnswer = errors.New("current question has no answer")

// ErrSessionCompleted is returned when mutating a session whose traversal has ended.
var ErrSessionCompleted = errors.New("session completed")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

package util

import (
	"errors"

	"clever_backend/internal/grading"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrTestNotFound       = errors.New("test not found")
	ErrResultNotFound     = errors.New("result not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrAccessDenied       = grading.ErrAccessDenied
	ErrNotAssigned        = grading.ErrNotAssigned
	ErrTestInactive       = grading.ErrTestInactive
	ErrAlreadyCompleted   = errors.New("test already completed")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrGroupExists        = errors.New("group with this name already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidQuestion    = errors.New("invalid question")
	ErrInvalidImage       = errors.New("invalid image")
	ErrInvalidInput       = errors.New("invalid input")
)

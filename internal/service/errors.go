package service

import (
	"errors"

	"github.com/Skotchmaster/hugelabz/internal/repo"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
)

// storeErr lifts repository errors into the service vocabulary.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return wrap(ErrNotFound, what+" not found")
	case errors.Is(err, repo.ErrDuplicate):
		return wrap(ErrConflict, what+" already exists")
	default:
		return err
	}
}

type detailedError struct {
	kind error
	msg  string
}

func (e *detailedError) Error() string { return e.msg }
func (e *detailedError) Unwrap() error { return e.kind }

// wrap returns an error that matches kind with errors.Is but reads as msg.
func wrap(kind error, msg string) error {
	return &detailedError{kind: kind, msg: msg}
}

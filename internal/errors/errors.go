package errors

import (
	"errors"
	"net/http"
	"strings"
)

type ErrorType string

func (s ErrorType) String() string {
	return strings.ToLower(string(s))
}

const (
	ErrInternalError   ErrorType = "Internal Error"
	ErrNotFound        ErrorType = "Not Found"
	ErrAlreadyExists   ErrorType = "Resource Already Exists"
	ErrInvalidArgument ErrorType = "Invalid Argument"
	ErrFailedPrecond   ErrorType = "Failed Precondition"
	ErrUpstream        ErrorType = "Upstream Unavailable"
	ErrSerialization   ErrorType = "Serialization Failed"
)

type DomainError struct {
	ErrorType  ErrorType
	Entity     string
	Message    string
	WrappedErr error
}

func NewError(errType ErrorType, entity, msg string) *DomainError {
	return &DomainError{
		Entity:    entity,
		ErrorType: errType,
		Message:   msg,
	}
}

func InvalidArgument(entity, msg string) *DomainError {
	return NewError(ErrInvalidArgument, entity, msg)
}

func NotFound(entity, msg string) *DomainError {
	return NewError(ErrNotFound, entity, msg)
}

func AlreadyExists(entity, msg string) *DomainError {
	return NewError(ErrAlreadyExists, entity, msg)
}

func FailedPrecondition(entity, msg string) *DomainError {
	return NewError(ErrFailedPrecond, entity, msg)
}

func Serialization(entity, msg string) *DomainError {
	return NewError(ErrSerialization, entity, msg)
}

func InternalError(entity, msg string, err error) *DomainError {
	return &DomainError{
		Entity:     entity,
		ErrorType:  ErrInternalError,
		Message:    msg,
		WrappedErr: err,
	}
}

// Upstream marks a failure of one of the external catalogs, retryable
// from the caller's point of view.
func Upstream(entity, msg string, err error) *DomainError {
	return &DomainError{
		Entity:     entity,
		ErrorType:  ErrUpstream,
		Message:    msg,
		WrappedErr: err,
	}
}

func Wrap(entity, msg string, err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return &DomainError{
			Entity:     entity,
			ErrorType:  de.ErrorType,
			Message:    msg,
			WrappedErr: err,
		}
	}
	return InternalError(entity, msg, err)
}

func (e *DomainError) Error() string {
	if e.WrappedErr != nil {
		return e.ErrorType.String() + " for entity " + e.Entity + ": " + e.Message + ": " + e.WrappedErr.Error()
	}
	return e.ErrorType.String() + " for entity " + e.Entity + ": " + e.Message
}

func (e *DomainError) Unwrap() error {
	return e.WrappedErr
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func IsErrorType(err error, errType ErrorType) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.ErrorType == errType
	}
	return false
}

// HTTPStatus maps a domain error to the status code the api layer
// responds with.
func HTTPStatus(err error) int {
	var de *DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	switch de.ErrorType {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrInvalidArgument:
		return http.StatusBadRequest
	case ErrAlreadyExists:
		return http.StatusConflict
	case ErrFailedPrecond:
		return http.StatusPreconditionFailed
	case ErrUpstream:
		return http.StatusBadGateway
	case ErrSerialization:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

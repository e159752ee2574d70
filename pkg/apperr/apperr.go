// Package apperr содержит общие типы ошибок для генерации, озвучки
// и хранения.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError означает неверный или отсутствующий ввод. Ошибка локальная, повтор не нужен.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation создаёт ValidationError для поля.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// UpstreamError означает сбой или пустой ответ удалённого AI-вызова.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return e.Op + ": upstream failure"
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Upstream оборачивает err в UpstreamError для операции op.
func Upstream(op string, err error) error {
	return &UpstreamError{Op: op, Err: err}
}

// StorageError означает сбой хранилища. Вызывающий логирует его и продолжает.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage оборачивает err в StorageError для операции op.
func Storage(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsUpstream(err error) bool {
	var u *UpstreamError
	return errors.As(err, &u)
}

func IsStorage(err error) bool {
	var s *StorageError
	return errors.As(err, &s)
}

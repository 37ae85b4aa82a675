package errors

import (
	"fmt"
	"strings"
)

type StorageError struct {
	Backend   string
	Operation string
	Err       error
}

func (e *StorageError) Error() string {
	if e.Backend != "" {
		return fmt.Sprintf("storage %s: %s failed: %v", e.Backend, e.Operation, e.Err)
	}
	return fmt.Sprintf("storage %s failed: %v", e.Operation, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func WrapStorage(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{
		Operation: operation,
		Err:       err,
	}
}

func WrapBackend(backend, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Err:       err,
	}
}

type ClipboardError struct {
	Operation string
	Err       error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("clipboard %s: %v", e.Operation, e.Err)
}

func (e *ClipboardError) Unwrap() error {
	return e.Err
}

func WrapClipboard(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &ClipboardError{
		Operation: operation,
		Err:       err,
	}
}

type ConfigError struct {
	Path          string
	Err           error
	RecoverySteps []string
}

func (e *ConfigError) Error() string {
	var sb strings.Builder

	sb.WriteString("invalid configuration")
	if e.Path != "" {
		sb.WriteString(fmt.Sprintf(" in %s", e.Path))
	}
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}

	if len(e.RecoverySteps) > 0 {
		sb.WriteString("\n\n  To fix:\n")
		for i, step := range e.RecoverySteps {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
		}
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func WrapConfig(path string, err error, steps ...string) error {
	if err == nil {
		return nil
	}
	return &ConfigError{
		Path:          path,
		Err:           err,
		RecoverySteps: steps,
	}
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func NewValidation(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

package syncer

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	syncValidationCode = "SYNC_VALIDATION_FAILED"
	syncConfigCode     = "SYNC_CONFIGURATION_INVALID"
	syncNotFoundCode   = "SYNC_ARTICLE_NOT_FOUND"
	syncExecuteCode    = "SYNC_EXECUTION_FAILED"
)

// ConfigurationError reports a configuration too incomplete to reach the
// remote host. Workflows raise it before any side effect.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("syncer: configuration invalid: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "article validation failed").
		WithTextCode(syncValidationCode)
}

func wrapConfigError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(&ConfigurationError{Err: err}, goerrors.CategoryValidation, "configuration invalid").
		WithTextCode(syncConfigCode)
}

func wrapNotFoundError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "article not found").
		WithTextCode(syncNotFoundCode)
}

func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "workflow step failed").
		WithTextCode(syncExecuteCode)
}

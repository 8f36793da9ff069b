// Package errors provides standardized error handling for catadder.
// It defines the error kinds raised while browsing for and opening catalogs,
// and helpers for consistent creation, wrapping, and inspection.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// Common error constants for frequently occurring errors
var (
	ErrInvalidPath   = NewFileError("not a directory", "", InvalidPath, nil)
	ErrNoSelection   = NewApplicationError("no catalog location selected", NoSelection, nil)
	ErrBusy          = NewApplicationError("a catalog is already being opened", Busy, nil)
	ErrInvalidConfig = NewConfigError("invalid configuration", "", InvalidConfig, nil)
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	// Selection error kinds
	NoSelection
	Busy
	// Catalog error kinds
	CatalogOpenFailed
	InvalidCatalog
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// Storage error kinds
	StorageOperationFailed
)

// String returns a short name for the kind
func (k ErrorKind) String() string {
	switch k {
	case FileNotFound:
		return "file not found"
	case FileAccessDenied:
		return "file access denied"
	case InvalidPath:
		return "invalid path"
	case NoSelection:
		return "no selection"
	case Busy:
		return "busy"
	case CatalogOpenFailed:
		return "catalog open failed"
	case InvalidCatalog:
		return "invalid catalog"
	case InvalidConfig:
		return "invalid config"
	case ConfigNotFound:
		return "config not found"
	case StorageOperationFailed:
		return "storage operation failed"
	default:
		return "unknown"
	}
}

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// NewApplicationError creates an error of the given kind
func NewApplicationError(msg string, kind ErrorKind, err error) *ApplicationError {
	return &ApplicationError{msg: msg, err: err, kind: kind}
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to file system browsing
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// CatalogError represents a failure to open or decode a catalog
type CatalogError struct {
	ApplicationError
	location string
}

// NewCatalogError creates a new catalog error
func NewCatalogError(msg string, location string, kind ErrorKind, err error) *CatalogError {
	return &CatalogError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		location: location,
	}
}

// Error returns the catalog error message
func (e *CatalogError) Error() string {
	if e.location != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.location, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.location)
	}
	return e.ApplicationError.Error()
}

// Location returns the catalog location associated with the error
func (e *CatalogError) Location() string {
	return e.location
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first application error in err's chain
func KindOf(err error) ErrorKind {
	type kinded interface{ Kind() ErrorKind }
	for err != nil {
		if k, ok := err.(kinded); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// IsInvalidPath checks if the error is an invalid path error
func IsInvalidPath(err error) bool {
	return KindOf(err) == InvalidPath
}

// IsNoSelection checks if the error reports a missing selection
func IsNoSelection(err error) bool {
	return KindOf(err) == NoSelection
}

// IsBusy checks if the error reports a submission already in flight
func IsBusy(err error) bool {
	return KindOf(err) == Busy
}

// IsCatalogOpenFailed checks if the error is a catalog open failure
func IsCatalogOpenFailed(err error) bool {
	var catErr *CatalogError
	if errors.As(err, &catErr) {
		return catErr.Kind() == CatalogOpenFailed
	}
	return false
}

// IsInvalidCatalog checks if the error reports a malformed catalog document
func IsInvalidCatalog(err error) bool {
	var catErr *CatalogError
	if errors.As(err, &catErr) {
		return catErr.Kind() == InvalidCatalog
	}
	return false
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

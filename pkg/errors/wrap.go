package errors

import "fmt"

// ParseError reports undecodable data: a provider payload, a stored
// timestamp or a config file.
type ParseError struct {
	Format string // json, uuid, timestamp
	Source string // what was being decoded, e.g. "USDA response"
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("decode %s (%s): %v", e.Format, e.Source, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError creates a ParseError.
func NewParseError(format, source string, err error) *ParseError {
	return &ParseError{Format: format, Source: source, Err: err}
}

// IOError reports a failed filesystem or stream operation.
type IOError struct {
	Op   string // open, read, migrate, listen
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// NewIOError creates an IOError.
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}

// ResourceError reports a failed operation on a stored resource such as a
// journal entry or profile.
type ResourceError struct {
	Op       string
	Resource string
	ID       string
	Err      error
}

func (e *ResourceError) Error() string {
	target := e.Resource
	if e.ID != "" {
		target += " " + e.ID
	}
	return fmt.Sprintf("cannot %s %s: %v", e.Op, target, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// NewResourceError creates a ResourceError.
func NewResourceError(op, resource, id string, err error) *ResourceError {
	return &ResourceError{Op: op, Resource: resource, ID: id, Err: err}
}

// AuthenticationError reports missing or rejected provider credentials.
// It matches both ErrAPIKeyRequired and ErrAPIKeyInvalid.
type AuthenticationError struct {
	Provider string
	Method   string // api_key, app_key
	Message  string
	Err      error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s credentials (%s): %s", e.Provider, e.Method, e.Message)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAPIKeyRequired || target == ErrAPIKeyInvalid
}

// NewAuthenticationError creates an AuthenticationError.
func NewAuthenticationError(provider, method, message string, err error) *AuthenticationError {
	return &AuthenticationError{Provider: provider, Method: method, Message: message, Err: err}
}

// The Wrap helpers return nil for a nil err so call sites can wrap
// unconditionally.

// WrapValidation turns err into a ValidationError on field.
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps err in an IOError.
func WrapIO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(op, path, err)
}

// WrapResource wraps err in a ResourceError.
func WrapResource(op, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(op, resource, id, err)
}

// WrapParse wraps err in a ParseError.
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, source, err)
}

// WrapAPI wraps err in an APIError so the status code classifies it.
func WrapAPI(provider string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{Provider: provider, StatusCode: statusCode, Message: err.Error(), Err: err}
}

package errs

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type AlreadyExistsError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

// ProviderError covers upstream bank-data failures: the call failed or the
// response was malformed/incomplete. Retryable by the caller when Transient;
// Reauth marks the link as needing user re-authentication.
type ProviderError struct {
	ErrorMessage
	Transient bool
	Reauth    bool
	Cause     error
}

func (e *ProviderError) Unwrap() error { return e.Cause }

// NotLinkedError means the user has no linked bank credential. Terminal for
// sync; the user has to link an institution first.
type NotLinkedError struct {
	ErrorMessage
}

// StorageError is a commit or read failure in the persistent store. Any
// in-flight batch was rolled back before this surfaces.
type StorageError struct {
	ErrorMessage
	Operation string
	Cause     error
}

func (e *StorageError) Unwrap() error { return e.Cause }

// EncryptionError covers credential encrypt/decrypt failures. Surfaced as a
// typed error so callers can distinguish it from provider failures without
// seeing credential material.
type EncryptionError struct {
	ErrorMessage
	Cause error
}

func (e *EncryptionError) Unwrap() error { return e.Cause }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewAlreadyExistsError(message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewProviderError(message string, transient bool, cause error) *ProviderError {
	return &ProviderError{
		ErrorMessage: ErrorMessage{Message: message},
		Transient:    transient,
		Cause:        cause,
	}
}

func NewReauthProviderError(message string, cause error) *ProviderError {
	return &ProviderError{
		ErrorMessage: ErrorMessage{Message: message},
		Reauth:       true,
		Cause:        cause,
	}
}

func NewNotLinkedError(message string) *NotLinkedError {
	return &NotLinkedError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewStorageError(operation, message string, cause error) *StorageError {
	return &StorageError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Cause:        cause,
	}
}

func NewEncryptionError(message string, cause error) *EncryptionError {
	return &EncryptionError{
		ErrorMessage: ErrorMessage{Message: message},
		Cause:        cause,
	}
}

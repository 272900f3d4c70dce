package core

import "errors"

// ErrNoSuchTable is wrapped by inspectors when the table does not exist.
var ErrNoSuchTable = errors.New("no such table")

// ErrorType is a stable code for a classified backend error.
type ErrorType string

// Error types produced by error classification.
const (
	GenericDBEngineError               ErrorType = "GENERIC_DB_ENGINE_ERROR"
	ColumnDoesNotExistError            ErrorType = "COLUMN_DOES_NOT_EXIST_ERROR"
	TableDoesNotExistError             ErrorType = "TABLE_DOES_NOT_EXIST_ERROR"
	SchemaDoesNotExistError            ErrorType = "SCHEMA_DOES_NOT_EXIST_ERROR"
	ObjectDoesNotExistError            ErrorType = "OBJECT_DOES_NOT_EXIST_ERROR"
	ConnectionAccessDeniedError        ErrorType = "CONNECTION_ACCESS_DENIED_ERROR"
	ConnectionInvalidUsernameError     ErrorType = "CONNECTION_INVALID_USERNAME_ERROR"
	ConnectionInvalidPasswordError     ErrorType = "CONNECTION_INVALID_PASSWORD_ERROR"
	ConnectionInvalidHostnameError     ErrorType = "CONNECTION_INVALID_HOSTNAME_ERROR"
	ConnectionHostDownError            ErrorType = "CONNECTION_HOST_DOWN_ERROR"
	ConnectionPortClosedError          ErrorType = "CONNECTION_PORT_CLOSED_ERROR"
	ConnectionUnknownDatabaseError     ErrorType = "CONNECTION_UNKNOWN_DATABASE_ERROR"
	ConnectionDatabasePermissionsError ErrorType = "CONNECTION_DATABASE_PERMISSIONS_ERROR"
	SyntaxError                        ErrorType = "SYNTAX_ERROR"
)

// ErrorContext carries caller-supplied template parameters (username,
// hostname, port, ...) that the raw driver message does not contain.
type ErrorContext map[string]string

// StructuredError is a classified backend error.
type StructuredError struct {
	Message string         `json:"message" yaml:"message"`
	Type    ErrorType      `json:"error_type" yaml:"error_type"`
	Level   ErrorLevel     `json:"level" yaml:"level"`
	Extra   map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Error implements the error interface so a StructuredError can travel
// through ordinary error returns.
func (e StructuredError) Error() string {
	return e.Message
}

package apperror

type Kind string

var (
	// --- Caller errors ---
	InvalidInput   Kind = "invalid_input"
	AlreadyExists  Kind = "already_exist"
	BusinessRule   Kind = "business_rule"
	NotFound       Kind = "not_found"
	Conflict       Kind = "conflict"
	Unauthorised   Kind = "unauthorised"
	Forbidden      Kind = "forbidden"
	RequestTimeout Kind = "request_timeout"

	// --- Server errors ---
	Internal    Kind = "internal"
	Dependency  Kind = "dependency_failure"
	DatabaseErr Kind = "database_error"
)

package constants

// Context keys
const (
	ContextKeyUser      = "user"
	ContextKeyToken     = "token"
	ContextKeyTask      = "task"
	ContextKeyRequestID = "request_id"
)

// HeaderRequestID is echoed back on every response.
const HeaderRequestID = "X-Request-ID"

// Password rules
const (
	MinPasswordLength = 7
	// ForbiddenPasswordSubstring is matched case-insensitively.
	ForbiddenPasswordSubstring = "password"
)

// Avatar upload limits
const (
	AvatarFormField   = "avatar"
	MaxAvatarBytes    = 1_000_000
	AvatarSize        = 250
	AvatarContentType = "image/png"
)

// Task listing
const (
	MaxPageSize = 100
)

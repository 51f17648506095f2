package models

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Username
	// required: true
	// example: john_doe
	Username string `json:"username"`

	// Email
	// required: true
	// example: john@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// example: secret123
	Password string `json:"password"`
}

// RegisterResponse represents a successful registration response
// swagger:model RegisterResponse
type RegisterResponse struct {
	// Registered user
	User UserPayload `json:"user"`

	// Signed auth token for the new user
	// example: JWT_TOKEN
	UserToken string `json:"userToken"`
}

// ConflictResponse is returned when the username or email is already taken
// swagger:model ConflictResponse
type ConflictResponse struct {
	// Conflict message
	// example: user already exists
	Message string `json:"message"`
}

// ValidationErrorResponse is returned when required signup fields are missing
// swagger:model ValidationErrorResponse
type ValidationErrorResponse struct {
	Errors ErrorBody `json:"errors"`
}

// ErrorBody carries a single error message.
type ErrorBody struct {
	// example: Invalid signup details
	Message string `json:"message"`
}

// ServerErrorResponse is the generic envelope for unexpected failures
// swagger:model ServerErrorResponse
type ServerErrorResponse struct {
	Errors ErrorBody `json:"errors"`
}

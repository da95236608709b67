// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyInternalError = "error.internal"
	KeyRateLimited   = "error.rate_limited"
	KeyForbidden     = "error.forbidden"

	// Validation
	KeyValidationInvalid = "validation.invalid"
	KeyInvalidID         = "validation.invalid_id"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthOAuthDisabled      = "auth.oauth_disabled"
	KeyAuthOAuthState         = "auth.oauth_state"
	KeyAuthOAuthFailed        = "auth.oauth_failed"

	// Users
	KeyUserNotFound = "user.not_found"

	// Products
	KeyProductNotFound  = "product.not_found"
	KeyProductDuplicate = "product.duplicate"
	KeyProductForbidden = "product.forbidden"

	// Uploads
	KeyUploadMissingFile = "upload.missing_file"
	KeyUploadInvalidFile = "upload.invalid_file"
	KeyUploadFailed      = "upload.failed"
)

// Resource names for NotFound messages.
const (
	ResourceProduct = "product"
	ResourceUser    = "user"
)

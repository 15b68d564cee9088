package shared

import "errors"

// Sentinel errors shared across the application. Call sites wrap these with
// fmt.Errorf("%w: ...") and callers match with errors.Is.
var (
	// Configuration
	ErrMissingConfig      = errors.New("configuration file not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrMissingCredentials = errors.New("missing client credentials")
	ErrMissingAPIKey      = errors.New("missing API key")

	// Authentication
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrSessionExpired     = errors.New("authentication session expired")
	ErrAuthExchangeFailed = errors.New("authorization code exchange failed")
	ErrTokenExpired       = errors.New("access token expired")
	ErrTimeout            = errors.New("operation timed out")

	// Catalog
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("resource not found")
	ErrCatalogRequest   = errors.New("catalog request failed")

	// Suggestions
	ErrBackendRequest  = errors.New("suggestion backend request failed")
	ErrSuggestionParse = errors.New("unable to parse suggestions")

	// Input & outcomes
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingArgument = errors.New("missing required argument")
	ErrNoMatches       = errors.New("no suggestions matched the catalog")

	// Storage
	ErrDatabase = errors.New("database operation failed")
)

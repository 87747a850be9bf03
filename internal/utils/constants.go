package utils

import "time"

// Application Constants
const (
	AppName    = "GoTours"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPage  = 1
	DefaultLimit = 100
	MaxLimit     = 500

	// Authentication
	PasswordMinLength = 8
	PasswordMaxLength = 128
	ResetTokenLength  = 32
	ResetTokenTTL     = 10 * time.Minute

	// PasswordChangedSkew is subtracted from the password-changed marker so
	// a token issued in the same instant as the change still validates.
	PasswordChangedSkew = 2 * time.Second

	// Ratings
	MinRating            = 1.0
	MaxRating            = 5.0
	DefaultRatingAverage = 4.5

	// Tour Constants
	TourNameMinLength   = 10
	TourNameMaxLength   = 40
	ReviewMinLength     = 20
	ReviewMaxLength     = 500
	TopToursLimit       = 5
	MinStatsRating      = 4.5

	// Request limits
	MaxBodyBytes = 10 << 10
)

// HTTP Status Words
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Cache Keys
const (
	CacheUserPrefix      = "user:"
	CacheUserEmailPrefix = "user_email:"
	CacheTourPrefix      = "tour:"
	CacheTourStatsPrefix = "tour_stats:"
	CacheRateLimitPrefix = "rate_limit:"
)

// Cache TTLs
const (
	UserCacheTTL = 15 * time.Minute
	TourCacheTTL = 15 * time.Minute
)

// Error Messages
const (
	ErrInvalidCredentials = "Incorrect email or password"
	ErrNotLoggedIn        = "You are not logged in. Please log in to get access"
	ErrNoPermission       = "You do not have permission to perform this action"
	ErrUserGone           = "The user belonging to this token no longer exists"
	ErrPasswordChanged    = "User recently changed password. Please log in again"
	ErrInternalServer     = "Something went wrong"
)

// Geographic Constants
const (
	EarthRadiusKM    = 6378.1
	EarthRadiusMiles = 3963.2

	MetersPerMile = 0.000621371
	MetersPerKM   = 0.001
)

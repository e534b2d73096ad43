package utils

const (
	UserRegistered = "user registered successfully"
	UserLoggedIn   = "user logged in successfully"
	ProfileFetched = "profile retrieved"
	TokenRefreshed = "token refreshed"
	UserFetched    = "user retrieved"

	AddressCreated  = "address registered successfully"
	AddressFetched  = "address retrieved"
	AddressesListed = "addresses retrieved"
	AddressUpdated  = "address updated successfully"
)

// pgUniqueViolation is the SQLSTATE postgres reports for a unique constraint hit.
const pgUniqueViolation = "23505"

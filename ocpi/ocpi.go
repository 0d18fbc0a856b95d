package ocpi

const (
	StatusSuccess = 1000

	StatusClientError       = 2000
	StatusInvalidParameters = 2001
	StatusNotEnoughInfo     = 2002
	StatusUnknownLocation   = 2003
	StatusUnknownToken      = 2004

	StatusServerError = 3000
)

const (
	MessageSuccess      = "Success!"
	MessageAccessDenied = "Invalid or blocked access token!"
)

// OCPI 2.2 routing headers
const (
	HeaderRequestId       = "X-Request-ID"
	HeaderCorrelationId   = "X-Correlation-ID"
	HeaderFromCountryCode = "OCPI-from-country-code"
	HeaderFromPartyId     = "OCPI-from-party-id"
	HeaderToCountryCode   = "OCPI-to-country-code"
	HeaderToPartyId       = "OCPI-to-party-id"

	HeaderTotalCount    = "X-Total-Count"
	HeaderFilteredCount = "X-Filtered-Count"
	HeaderLimit         = "X-Limit"
	HeaderLink          = "Link"
)

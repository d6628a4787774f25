package line

import "errors"

var (
	// ErrDelivery indicates a Messaging API call failed.
	ErrDelivery = errors.New("line delivery failed")
	// ErrMalformedEvent indicates a webhook event could not be decoded.
	ErrMalformedEvent = errors.New("malformed webhook event")
)

package models

import "fmt"

// NoAccountHandle is the handle value used in recipient tables for people
// without a payment account.
const NoAccountHandle = "no-account"

// HandleMarker prefixes a handle when addressing the payment service.
const HandleMarker = "@"

// Recipient represents one person to request money from.
type Recipient struct {
	// FirstName is the recipient's first name as written in the table.
	FirstName string

	// LastName is the recipient's last name as written in the table.
	LastName string

	// Handle is the payment-service username without the leading marker.
	// NoAccountHandle means the recipient has no account on file.
	Handle string
}

// HasAccount reports whether the recipient can be sent a request.
func (r Recipient) HasAccount() bool {
	return r.Handle != NoAccountHandle
}

// Target returns the address used by the payment service, e.g. "@alice".
func (r Recipient) Target() string {
	return HandleMarker + r.Handle
}

// FullName returns "First Last".
func (r Recipient) FullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}

// Row returns the recipient as a remainder-table row.
func (r Recipient) Row() []string {
	return []string{r.FirstName, r.LastName, r.Handle}
}

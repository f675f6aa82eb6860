// Package common holds constants shared by the client packages.
package common

const (
	// CurrentUserKey is the local storage key of the logged-in user blob.
	CurrentUserKey = "currentUser"

	// SessionSavedAtKey records when CurrentUserKey was last written.
	SessionSavedAtKey = "currentUserSavedAt"

	// RequestIDHeaderName carries a per-request id on outbound API calls.
	RequestIDHeaderName = "X-Request-ID"
)

// Package models defines the JSON bodies exchanged with API clients of the
// file relay.
package models

import "time"

// PublishResponse is returned after a successful upload.
type PublishResponse struct {
	// Code is the four digit code the file can be redeemed with.
	Code string `json:"code"`

	// DisplayName is the sanitized name the file will be downloaded as.
	DisplayName string `json:"display_name"`

	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`

	// ExpiresAt is the moment after which the code stops working.
	ExpiresAt time.Time `json:"expires_at"`
}

// RedeemRequest asks for the file behind a code.
type RedeemRequest struct {
	Code string `json:"code"`
}

// StatsResponse describes the live registry.
type StatsResponse struct {
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"`
}

// ErrorResponse carries a failure reason on JSON routes.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SweepResponse summarizes a manual sweep.
type SweepResponse struct {
	Expired   int `json:"expired"`
	Failed    int `json:"failed"`
	Remaining int `json:"remaining"`
}

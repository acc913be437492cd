// Package handlers contains the HTTP handlers for the dashboard API.
package handlers

// Document collections used by the API.
const (
	DevicesCollection     = "devices"
	ReadingsCollection    = "readings"
	PreferencesCollection = "preferences"
)

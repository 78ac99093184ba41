// Package httpapi exposes the transcription services over a JSON HTTP API
// built on fiber. Handlers translate requests into service calls and map the
// sentinel errors from internal/common to status codes in one place.
package httpapi

// Package client talks to the transcription server's HTTP API.
package client

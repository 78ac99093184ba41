package common

// AuthorizationHeaderName carries the bearer access token on API requests.
const AuthorizationHeaderName = "Authorization"

// TokenQueryParam is the query parameter used by media-element URLs that
// cannot attach headers.
const TokenQueryParam = "token"

// Transcription sentinels stored in place of text when the provider yields
// nothing usable.
const (
	SentinelNoSpeech           = "[No speech detected]"
	SentinelTranscriptionError = "[Transcription error]"
)

package recognition

import "strings"

// Code classifies a recognition failure at the service boundary. The values
// mirror the diagnostic codes emitted by browser speech engines so that
// providers can pass them through unchanged.
type Code string

const (
	// CodeNoSpeech is a transient silence timeout; sessions survive it.
	CodeNoSpeech Code = "no-speech"
	// CodeNotAllowed means the capture device authorization was denied.
	CodeNotAllowed Code = "not-allowed"
	// CodeAudioCapture means the capture device failed.
	CodeAudioCapture Code = "audio-capture"
	// CodeNetwork means the provider connection dropped.
	CodeNetwork Code = "network"
	// CodeAborted means the session was torn down unexpectedly.
	CodeAborted Code = "aborted"
	// CodeUnknown covers everything the provider did not classify.
	CodeUnknown Code = "unknown"
)

// Transient reports whether the code describes a condition the session can
// recover from in place.
func (c Code) Transient() bool {
	return c == CodeNoSpeech
}

// Normalize maps a raw provider code to a known Code, defaulting to unknown.
func Normalize(raw string) Code {
	switch Code(strings.ToLower(strings.TrimSpace(raw))) {
	case CodeNoSpeech:
		return CodeNoSpeech
	case CodeNotAllowed:
		return CodeNotAllowed
	case CodeAudioCapture:
		return CodeAudioCapture
	case CodeNetwork:
		return CodeNetwork
	case CodeAborted:
		return CodeAborted
	}
	return CodeUnknown
}

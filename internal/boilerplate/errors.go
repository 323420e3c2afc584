package boilerplate

import "errors"

// Error taxonomy for the generation pipeline. Callers discriminate with
// errors.Is; every failure path wraps exactly one of these sentinels.
var (
	// ErrMissingCredential means no API key was available. Checked before
	// any network activity.
	ErrMissingCredential = errors.New("missing API credential")

	// ErrRemoteCall covers model endpoint failures, including responses
	// that contain no usable text.
	ErrRemoteCall = errors.New("model call failed")

	// ErrMalformedManifest means no valid JSON object could be extracted
	// from the model's response by any strategy.
	ErrMalformedManifest = errors.New("no valid JSON manifest in model output")

	// ErrFileSystem covers directory creation and file write failures
	// during materialization.
	ErrFileSystem = errors.New("filesystem operation failed")

	// ErrPackaging covers archive creation failures, both the external
	// rar tool exiting nonzero and the zip fallback failing.
	ErrPackaging = errors.New("archive creation failed")
)

package media

import "errors"

var (
	// ErrInvalidInput indicates a malformed media reference, rejected before any I/O.
	ErrInvalidInput = errors.New("invalid media input")
	// ErrTranscode indicates the transcoding engine could not produce a waveform.
	ErrTranscode = errors.New("transcode failed")
	// ErrAssetTooLarge indicates the payload exceeds the configured max size.
	ErrAssetTooLarge = errors.New("media asset too large")
	// ErrUnsupportedImage indicates the image payload could not be decoded.
	ErrUnsupportedImage = errors.New("unsupported image")
)

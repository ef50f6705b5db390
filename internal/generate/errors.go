package generate

import "errors"

var (
	// ErrEmptyResponse indicates the model returned no usable text.
	ErrEmptyResponse = errors.New("model returned empty response")
	// ErrMalformedResponse indicates no valid JSON object could be
	// extracted from the model output.
	ErrMalformedResponse = errors.New("no valid JSON object in model response")
	// ErrNoImageURL indicates the image API response carried no URL.
	ErrNoImageURL = errors.New("image response contained no URL")
	// ErrDownload indicates an image download failed.
	ErrDownload = errors.New("image download failed")
)

package api

import (
	"errors"
	"fmt"
)

// Supported API modes.
const (
	ModeProd     = "prod"
	ModeMetadata = "metadata"
)

// Base URLs per mode.
const (
	ProdBaseURL     = "https://clearconsensus.io/apigw/api/v1"
	MetadataBaseURL = "https://metadata.cfvr.io/apigw/api/v1"
)

// ErrUnknownMode is returned for any mode other than prod or metadata.
var ErrUnknownMode = errors.New("unknown api mode")

// BaseURL resolves the REST base URL for mode.
func BaseURL(mode string) (string, error) {
	switch mode {
	case ModeProd:
		return ProdBaseURL, nil
	case ModeMetadata:
		return MetadataBaseURL, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownMode, mode, ModeProd, ModeMetadata)
	}
}

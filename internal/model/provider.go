package model

import (
	"errors"
	"strings"
)

// Provider is the closed set of supported OAuth identity providers.
// Free strings from the outside are converted through ParseProvider so
// anything unsupported is rejected at the boundary.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
)

var ErrUnsupportedProvider = errors.New("unsupported auth provider")

func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderGoogle:
		return ProviderGoogle, nil
	case ProviderFacebook:
		return ProviderFacebook, nil
	}
	return "", ErrUnsupportedProvider
}

func (p Provider) String() string {
	return string(p)
}

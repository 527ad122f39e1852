package config

import "strings"

// CredentialStatus describes whether an external service can be called.
type CredentialStatus int

const (
	Unconfigured CredentialStatus = iota
	PlaceholderDetected
	Configured
)

// placeholderMarkers are fragments found in sample .env files and demo
// deployments. A credential containing any of them is never sent upstream.
var placeholderMarkers = []string{
	"your_",
	"demo",
	"test-key",
	"***",
}

// Classify inspects one or more credential values belonging to the same
// service. A blank value wins over a placeholder.
func Classify(values ...string) CredentialStatus {
	if len(values) == 0 {
		return Unconfigured
	}
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return Unconfigured
		}
	}
	for _, v := range values {
		if isPlaceholder(v) {
			return PlaceholderDetected
		}
	}
	return Configured
}

func isPlaceholder(v string) bool {
	lower := strings.ToLower(v)
	for _, m := range placeholderMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// Usable reports whether calls to the service should be attempted.
func (s CredentialStatus) Usable() bool {
	return s == Configured
}

func (s CredentialStatus) String() string {
	switch s {
	case Configured:
		return "configured"
	case PlaceholderDetected:
		return "placeholder"
	default:
		return "not_configured"
	}
}

// Package validate provides the syntactic predicates applied to inbound send
// requests and to startup configuration.
//
// Every predicate rejects values with leading or trailing whitespace before
// applying its own grammar.
package validate

import (
	"net"
	"regexp"
	"strings"
	"unicode"
)

// Provider names accepted by the service.
const (
	ProviderMock = "mock"
	ProviderSES  = "ses"
	ProviderSMTP = "smtp"
)

// sendGridKeyLength is the exact length of a third-party mail API key.
const sendGridKeyLength = 71

// hostLabel is one DNS label: alphanumeric at both ends, at most 63 chars.
const hostLabel = `[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?`

var (
	emailAddressPattern = regexp.MustCompile(
		"^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]{1,64}@" + hostLabel + `(?:\.` + hostLabel + `)+$`,
	)
	hostPattern        = regexp.MustCompile(`^` + hostLabel + `(?:\.` + hostLabel + `)*$`)
	numericHostPattern = regexp.MustCompile(`^[0-9.]+$`)
	baseURIPattern     = regexp.MustCompile(
		`^https?://` + hostLabel + `(?:\.` + hostLabel + `)*(?::[0-9]+)?/(?:[A-Za-z0-9._~-]+/)*$`,
	)
	awsAccessPattern   = regexp.MustCompile(`^[A-Z0-9]+$`)
	awsSecretPattern   = regexp.MustCompile(`^[A-Za-z0-9+/=]+$`)
	sendGridKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._]+$`)
)

var providers = map[string]struct{}{
	ProviderMock: {},
	ProviderSES:  {},
	ProviderSMTP: {},
}

// awsRegions is the allow-list of regions the cloud mail API is deployed to.
var awsRegions = map[string]struct{}{
	"ap-northeast-1": {},
	"ap-northeast-2": {},
	"ap-south-1":     {},
	"ap-southeast-1": {},
	"ap-southeast-2": {},
	"ca-central-1":   {},
	"eu-central-1":   {},
	"eu-west-1":      {},
	"eu-west-2":      {},
	"eu-west-3":      {},
	"sa-east-1":      {},
	"us-east-1":      {},
	"us-east-2":      {},
	"us-west-1":      {},
	"us-west-2":      {},
}

// EmailAddress reports whether s is a bare address of the form local@domain
// where the domain contains at least one dot.
func EmailAddress(s string) bool {
	return trimmed(s) && emailAddressPattern.MatchString(s)
}

// Host reports whether s is a bare hostname or dotted-quad IPv4 literal.
// Ports, paths and schemes are rejected, as are numeric hosts that are not a
// valid IPv4 address.
func Host(s string) bool {
	if !trimmed(s) {
		return false
	}
	if numericHostPattern.MatchString(s) {
		ip := net.ParseIP(s)
		return ip != nil && ip.To4() != nil
	}
	return hostPattern.MatchString(s)
}

// BaseURI reports whether s is an http(s) URI ending in exactly one slash,
// without query string or fragment.
func BaseURI(s string) bool {
	return trimmed(s) && baseURIPattern.MatchString(s)
}

// Provider reports whether s names a supported provider. Matching is exact
// and case-sensitive.
func Provider(s string) bool {
	_, ok := providers[s]
	return ok
}

// SenderName reports whether s is printable text without an @ sign.
func SenderName(s string) bool {
	if s == "" || !trimmed(s) {
		return false
	}
	for _, r := range s {
		if r == '@' || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// AWSRegion reports whether s is one of the supported region codes. Codes
// that merely look like a region (us-east-3) are rejected.
func AWSRegion(s string) bool {
	_, ok := awsRegions[s]
	return ok
}

// AWSAccess reports whether s looks like an AWS access key id.
func AWSAccess(s string) bool {
	return trimmed(s) && awsAccessPattern.MatchString(s)
}

// AWSSecret reports whether s looks like an AWS secret access key.
func AWSSecret(s string) bool {
	return trimmed(s) && awsSecretPattern.MatchString(s)
}

// SendGridAPIKey reports whether s has the shape of a third-party mail API key.
func SendGridAPIKey(s string) bool {
	return len(s) == sendGridKeyLength && trimmed(s) && sendGridKeyPattern.MatchString(s)
}

// trimmed reports whether s has no leading or trailing whitespace.
func trimmed(s string) bool {
	return strings.TrimSpace(s) == s
}

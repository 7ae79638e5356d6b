// File path: internal/upi/upi.go

// Package upi builds UPI payment deeplinks per the NPCI linking
// specification. The deeplink string doubles as the QR payload.
package upi

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidVPA reports a payment address that does not match the
// local-part@handle shape.
var ErrInvalidVPA = errors.New("invalid VPA")

// vpaPattern: alphanumeric/dot/hyphen local part and alphanumeric handle,
// each at least two characters.
var vpaPattern = regexp.MustCompile(`^[A-Za-z0-9.-]{2,}@[A-Za-z0-9]{2,}$`)

type Params struct {
	VPA       string
	PayeeName string
	Amount    float64
	Currency  string
	Note      string
	TxnRef    string
}

// ValidVPA reports whether the address has the local-part@handle shape.
func ValidVPA(vpa string) bool {
	return vpaPattern.MatchString(strings.TrimSpace(vpa))
}

// Deeplink renders the upi://pay URI for the given parameters. The payee name
// and note are percent-encoded; the VPA and transaction reference are carried
// verbatim after shape validation.
func Deeplink(p Params) (string, error) {
	vpa := strings.TrimSpace(p.VPA)
	if !ValidVPA(vpa) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVPA, p.VPA)
	}
	currency := strings.TrimSpace(p.Currency)
	if currency == "" {
		currency = "INR"
	}
	parts := []string{
		"pa=" + vpa,
		"pn=" + encode(p.PayeeName),
		fmt.Sprintf("am=%.2f", p.Amount),
		"cu=" + currency,
	}
	if note := strings.TrimSpace(p.Note); note != "" {
		parts = append(parts, "tn="+encode(note))
	}
	if ref := strings.TrimSpace(p.TxnRef); ref != "" {
		parts = append(parts, "tr="+ref)
	}
	return "upi://pay?" + strings.Join(parts, "&"), nil
}

// encode percent-encodes a query value with %20 for spaces, matching the form
// UPI apps expect in deeplinks.
func encode(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}

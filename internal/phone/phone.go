// Package phone holds the pure phone-number rules used by the checkout
// flow and the payment proxy: carrier classification against fixed prefix
// tables, input sanitizing, the accepted charge formats, normalization to
// the local form, and display grouping.
package phone

import (
	"regexp"
	"strings"
)

// safaricomPrefixes is the fixed set of Safaricom number prefixes. The
// Safaricom number is the one the STK push charges.
var safaricomPrefixes = []string{
	"0700", "0701", "0702", "0703", "0704", "0705", "0706", "0707",
	"0708", "0709", "0710", "0711", "0712", "0713", "0714", "0715",
	"0716", "0717", "0718", "0719", "0720", "0721", "0722", "0723",
	"0724", "0725", "0726", "0727", "0728", "0729", "0740", "0741",
	"0742", "0743", "0744", "0745", "0746", "0747",
}

// airtelPrefixes is the fixed set of Airtel number prefixes. The Airtel
// number is the one the data bundle is provisioned to.
var airtelPrefixes = []string{
	"0730", "0731", "0732", "0733", "0734", "0735", "0738", "0739",
	"0757", "0758", "0759",
}

var nonDigits = regexp.MustCompile(`\D`)

// acceptedPattern matches the charge formats the proxy accepts: the local
// form 07XXXXXXXX, the same with a 254 or +254 country code (optionally
// space-separated), and the bare 7XXXXXXXX subscriber form.
var acceptedPattern = regexp.MustCompile(`^(\+?254\s?)?0?7[0-9]{8}$`)

// SanitizeInput reduces raw user input to at most 10 digits with a forced
// leading zero, mirroring what the number entry fields apply on every edit.
func SanitizeInput(value string) string {
	digits := nonDigits.ReplaceAllString(value, "")
	if len(digits) > 0 && !strings.HasPrefix(digits, "0") {
		digits = "0" + digits
	}
	if len(digits) > 10 {
		digits = digits[:10]
	}
	return digits
}

// IsSafaricom reports whether number is a 10-digit Safaricom number.
func IsSafaricom(number string) bool {
	return hasKnownPrefix(number, safaricomPrefixes)
}

// IsAirtel reports whether number is a 10-digit Airtel number.
func IsAirtel(number string) bool {
	return hasKnownPrefix(number, airtelPrefixes)
}

func hasKnownPrefix(number string, prefixes []string) bool {
	if len(number) != 10 {
		return false
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(number, prefix) {
			return true
		}
	}
	return false
}

// MatchesAccepted reports whether number is in one of the accepted charge
// formats. It performs no normalization; see NormalizeLocal.
func MatchesAccepted(number string) bool {
	return acceptedPattern.MatchString(number)
}

// NormalizeLocal converts any accepted charge format to the local
// 0XXXXXXXXX form the payment provider expects.
func NormalizeLocal(number string) string {
	n := strings.ReplaceAll(number, " ", "")
	n = strings.TrimPrefix(n, "+")
	n = strings.TrimPrefix(n, "254")
	if !strings.HasPrefix(n, "0") {
		n = "0" + n
	}
	return n
}

// FormatDisplay groups a 10-digit number as 4-3-3 ("0712 345 678") for
// presentation. Anything else is returned unchanged; stored values are
// never formatted.
func FormatDisplay(number string) string {
	if len(number) != 10 {
		return number
	}
	return number[:4] + " " + number[4:7] + " " + number[7:]
}

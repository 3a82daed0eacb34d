// Package redact masks personal data before it reaches the logs.
package redact

// MaskPhone keeps the first two and last four characters of a phone number.
// Values shorter than four characters are fully masked.
func MaskPhone(phone string) string {
	if len(phone) < 4 {
		return "***"
	}
	if len(phone) < 6 {
		return "***" + phone[len(phone)-4:]
	}
	return phone[:2] + "***" + phone[len(phone)-4:]
}

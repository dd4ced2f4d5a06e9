package privacy

// DefaultRules returns the rules for personal data commonly pasted into a
// travel group chat.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          "email",
			Description: "E-mail address",
			Pattern:     `[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
			Keywords:    []string{"@"},
			Severity:    "medium",
		},
		{
			ID:          "phone-international",
			Description: "International phone number",
			Pattern:     `\+\d{1,3}[ \-]?\(?\d{1,4}\)?[ \-]?\d{3,4}[ \-]?\d{3,4}`,
			Keywords:    []string{"+"},
			Severity:    "medium",
		},
		{
			ID:          "phone-uk-mobile",
			Description: "UK mobile number",
			Pattern:     `\b07\d{3}[ \-]?\d{3}[ \-]?\d{3}\b`,
			Severity:    "medium",
		},
		{
			ID:          "payment-card",
			Description: "Payment card number",
			Pattern:     `\b\d{4}[ \-]?\d{4}[ \-]?\d{4}[ \-]?\d{1,4}\b`,
			Severity:    "high",
			Check:       "luhn",
		},
		{
			ID:          "booking-pin",
			Description: "Booking PIN or reference code",
			Pattern:     `(?i)\b(?:pin|ref|reference|confirmation (?:number|code)|booking (?:number|no\.?))(?:\s+is)?(?:\s*[:#]\s*|\s+)([A-Z0-9]{4,12})\b`,
			Keywords:    []string{"pin", "ref", "confirmation", "booking"},
			Severity:    "high",
			Check:       "digits",
		},
	}
}

// hasDigit reports whether s contains at least one digit.
func hasDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}

// luhnValid reports whether the digits in s pass the Luhn checksum.
// Separators are ignored.
func luhnValid(s string) bool {
	sum, n := 0, 0
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c == ' ' || c == '-' {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if n%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		n++
	}
	return n >= 13 && sum%10 == 0
}

// Package pattern holds the deterministic text-pattern rules for price,
// delivery-time, and named-specification extraction. It is a leaf package:
// pure functions over strings, no external calls.
package pattern

import (
	"regexp"
	"strconv"
	"strings"
)

// amount matches a currency amount with grouped thousands and an
// optional two-decimal fraction, e.g. "1,299.00".
const amount = `\d{1,3}(?:,\d{3})*(?:\.\d{2})?`

// pricePatterns are tried in priority order; the first match wins.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)AUD\s*\$?(` + amount + `)`),
	regexp.MustCompile(`\$(` + amount + `)`),
	regexp.MustCompile(`(?i)Price:\s*\$?(` + amount + `)`),
	regexp.MustCompile(`(?i)Cost:\s*\$?(` + amount + `)`),
	regexp.MustCompile(`(?i)From\s*\$?(` + amount + `)`),
	regexp.MustCompile(`(?i)Starting at\s*\$?(` + amount + `)`),
}

// Price extracts the first price found in text, normalized to "$<amount>".
func Price(text string) (string, bool) {
	for _, re := range pricePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return "$" + m[1], true
		}
	}
	return "", false
}

// specPatterns extract "<Field>: value" lines from listing descriptions.
// Keys follow the domain.SpecKeys vocabulary.
var specPatterns = map[string]*regexp.Regexp{
	"brand":      regexp.MustCompile(`(?i)Brand:\s*([^\n]+)`),
	"model":      regexp.MustCompile(`(?i)Model:\s*([^\n]+)`),
	"color":      regexp.MustCompile(`(?i)Color:\s*([^\n]+)`),
	"size":       regexp.MustCompile(`(?i)Size:\s*([^\n]+)`),
	"weight":     regexp.MustCompile(`(?i)Weight:\s*([^\n]+)`),
	"dimensions": regexp.MustCompile(`(?i)Dimensions:\s*([^\n]+)`),
	"warranty":   regexp.MustCompile(`(?i)Warranty:\s*([^\n]+)`),
	"condition":  regexp.MustCompile(`(?i)Condition:\s*([^\n]+)`),
}

// Specs extracts named specifications from a listing description.
func Specs(description string) map[string]string {
	specs := make(map[string]string)
	for key, re := range specPatterns {
		if m := re.FindStringSubmatch(description); m != nil {
			specs[key] = strings.TrimSpace(m[1])
		}
	}
	return specs
}

// deliveryPatterns recognize explicit day ranges and named service levels,
// in priority order.
var deliveryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`delivery in \d+-\d+ days?`),
	regexp.MustCompile(`ships in \d+-\d+ days?`),
	regexp.MustCompile(`arrives in \d+-\d+ days?`),
	regexp.MustCompile(`express delivery`),
	regexp.MustCompile(`next day delivery`),
	regexp.MustCompile(`free shipping`),
	regexp.MustCompile(`standard delivery`),
	regexp.MustCompile(`priority delivery`),
}

// DeliveryTime extracts delivery information from a listing description.
func DeliveryTime(description string) (string, bool) {
	lower := strings.ToLower(description)
	for _, re := range deliveryPatterns {
		if m := re.FindString(lower); m != "" {
			return m, true
		}
	}
	return "", false
}

// amountRe matches the first currency-shaped substring in free text,
// with or without a leading dollar sign.
var amountRe = regexp.MustCompile(`\$?` + amount)

// Amount extracts the first currency-shaped substring from free text
// (e.g. a price-estimation response) and normalizes it to "$<amount>".
func Amount(text string) (string, bool) {
	m := amountRe.FindString(text)
	if m == "" {
		return "", false
	}
	if !strings.HasPrefix(m, "$") {
		m = "$" + m
	}
	return m, true
}

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// Numeric parses the numeric value out of a currency string such as
// "$1,299.00" or "under 500 AUD" for comparisons.
func Numeric(s string) (float64, bool) {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

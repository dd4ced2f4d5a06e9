// Package privacy redacts personal data from chat evidence.
//
// Extracted items keep the messages that evidenced them. Those messages may
// carry phone numbers, e-mail addresses, card numbers and booking PINs, so
// they pass through a Scrubber before an itinerary is stored or served.
// Findings record rule IDs and positions but never the matched value.
package privacy

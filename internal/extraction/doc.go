// Package extraction finds travel bookings in a group chat transcript using
// fixed keyword and pattern tables.
//
// Three detectors run in order over the non-system messages:
//   - hotels, named by a "Check out X on Booking.com" share or a booking link
//   - flights, an airline mention in a message with flight context
//   - transfers, ferry and boat mentions with an island route or a time
//
// Each item's status comes from a window of nearby messages: a phrase such
// as "booked" or "all done" marks it confirmed, otherwise it is tentative.
// Dates come from booking link query parameters, or from the first date
// phrase ("14th March") found in a window around the message.
//
// # Usage
//
//	extractor := extraction.NewEntityExtractor(messages, extraction.DefaultConfig(), logger)
//	trip := extractor.BuildItinerary("Thailand 2026", participants, true)
//
// Extraction is deterministic. Running it twice over the same messages gives
// the same items with the same ids.
package extraction

// Package transcript reads WhatsApp group chat exports.
//
// An export is a text file of records of the form
//
//	[14/11/2025, 18:02:11] Ana: Check out Castaway on Booking.com!
//
// Lines that do not start with a bracketed timestamp continue the previous
// record. Exports shared from a phone usually arrive zipped; Reader accepts
// plain text, zip archives and compressed files alike.
package transcript

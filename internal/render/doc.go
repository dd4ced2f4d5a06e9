// Package render turns itineraries into files and terminal output: the JSON
// data file, a standalone HTML page and a styled text listing.
package render

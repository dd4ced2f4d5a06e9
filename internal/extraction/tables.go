package extraction

import (
	"regexp"
)

// Lookup tables are ordered: the first entry to match wins.

// airlinePattern names an airline. When notFollowedBy is set, a match is only
// accepted if the text right after it does not match notFollowedBy.
type airlinePattern struct {
	re            *regexp.Regexp
	name          string
	notFollowedBy *regexp.Regexp
}

var airlinePatterns = []airlinePattern{
	{re: regexp.MustCompile(`(?i)\bEtihad\b`), name: "Etihad"},
	{re: regexp.MustCompile(`(?i)\bAir\s*Asia\b`), name: "Air Asia"},
	{re: regexp.MustCompile(`(?i)\bThai\s*Airways\b`), name: "Thai Airways"},
	{
		re:            regexp.MustCompile(`(?i)\bQatar\b`),
		name:          "Qatar",
		notFollowedBy: regexp.MustCompile(`(?i)^\s+(?:hotel|resort)`),
	},
	{re: regexp.MustCompile(`(?i)\bBritish\s*Airways\b`), name: "British Airways"},
	{re: regexp.MustCompile(`(?i)\bViet\s*Jet\b`), name: "VietJet"},
	{re: regexp.MustCompile(`(?i)\bOman\s*Air\b`), name: "Oman Air"},
}

// match reports whether the airline is mentioned in content.
func (p airlinePattern) match(content string) bool {
	for _, loc := range p.re.FindAllStringIndex(content, -1) {
		if p.notFollowedBy == nil || !p.notFollowedBy.MatchString(content[loc[1]:]) {
			return true
		}
	}
	return false
}

// flightContext are lowercase substrings, at least one of which must appear
// in a message before it is scanned for airlines.
var flightContext = []string{
	"flight", "fly", "flying", "depart", "arrive", "layover", "airport",
	"lhr", "bkk", "booking", "£",
}

// routeStop is an airport code or city recognised in flight messages.
type routeStop struct {
	token string
	city  string
}

var routeStops = []routeStop{
	{token: "LHR", city: "London"},
	{token: "BKK", city: "Bangkok"},
	{token: "Phuket", city: "Phuket"},
	{token: "Krabi", city: "Krabi"},
	{token: "Lanta", city: "Koh Lanta"},
}

// transferKeywords are deliberately narrow; plain "transfer" matches too
// much unrelated chat.
var transferKeywords = []string{"ferry", "speedboat", "longtail boat"}

// islands lists the island spellings recognised in transfer messages. The
// "Koh " prefix is dropped when building titles.
var islands = []string{
	"Koh Lipe", "Koh Lanta", "Koh Kradan", "Koh Libong", "Koh Mook", "Koh Ngai",
	"Lipe", "Lanta", "Kradan", "Libong",
}

const islandPrefix = "Koh "

var confirmationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bbooked!?\b`),
	regexp.MustCompile(`(?i)\ball done\b`),
	regexp.MustCompile(`(?i)\ball booked\b`),
	regexp.MustCompile(`(?i)\bjust booked\b`),
	regexp.MustCompile(`(?i)\bsorted\b`),
	regexp.MustCompile(`(?i)\bconfirmed\b`),
	regexp.MustCompile(`(?i)\bThis is booked\b`),
}

// hotelLocation maps a lowercase keyword found in a hotel name to the
// destination it belongs to.
type hotelLocation struct {
	keyword  string
	location string
}

var hotelLocations = []hotelLocation{
	{keyword: "lipe", location: "Koh Lipe"},
	{keyword: "kradan", location: "Koh Kradan"},
	{keyword: "libong", location: "Koh Libong"},
	{keyword: "lanta", location: "Koh Lanta"},
	{keyword: "bangkok", location: "Bangkok"},
	{keyword: "sukhumvit", location: "Bangkok"},
	{keyword: "riverside", location: "Bangkok"},
}

var (
	bookingURLPattern = regexp.MustCompile(`(?i)https?://(?:www\.)?booking\.com/[^\s]+`)
	hotelPathPattern  = regexp.MustCompile(`/hotel/\w+/([^/.]+)`)
	checkOutPattern   = regexp.MustCompile(`(?i)Check out ([^!]+?) on Booking\.com`)
	costPattern       = regexp.MustCompile(`(?i)£(\d{1,4}(?:\.\d{2})?)\s*(?:pp|per person|each)?`)
	clockTimePattern  = regexp.MustCompile(`(\d{1,2})[:.](\d{2})`)
	datePhrasePattern = regexp.MustCompile(`(?i)(\d{1,2})(?:st|nd|rd|th)?\s+(Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\s*(\d{4})?`)
)

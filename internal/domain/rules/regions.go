package rules

import "strings"

// RegionAuto lets the upstream API pick the server region itself.
const RegionAuto = "AUTO"

var validRegions = []string{
	"BD", "IND", "ID", "TH", "VN", "SG", "MY", "PH",
	"BR", "RU", "US", "PK", "EG", "SA", "ME", RegionAuto,
}

var regionFlags = map[string]string{
	"BD": "\U0001F1E7\U0001F1E9", "IND": "\U0001F1EE\U0001F1F3",
	"ID": "\U0001F1EE\U0001F1E9", "TH": "\U0001F1F9\U0001F1ED",
	"VN": "\U0001F1FB\U0001F1F3", "SG": "\U0001F1F8\U0001F1EC",
	"MY": "\U0001F1F2\U0001F1FE", "PH": "\U0001F1F5\U0001F1ED",
	"BR": "\U0001F1E7\U0001F1F7", "RU": "\U0001F1F7\U0001F1FA",
	"US": "\U0001F1FA\U0001F1F8", "PK": "\U0001F1F5\U0001F1F0",
	"EG": "\U0001F1EA\U0001F1EC", "SA": "\U0001F1F8\U0001F1E6",
	"ME": "\U0001F1F2\U0001F1EA", RegionAuto: "\U0001F30D",
}

// NormalizeRegion uppercases the code and reports whether it is one of the
// regions the upstream API accepts.
func NormalizeRegion(region string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(region))
	if code == "" {
		return RegionAuto, true
	}
	for _, valid := range validRegions {
		if code == valid {
			return code, true
		}
	}
	return code, false
}

// WireRegion maps a region code to the value the upstream API expects in the
// query string. IND is the one alias: the API only recognizes IN.
func WireRegion(region string) string {
	if region == "IND" {
		return "IN"
	}
	return region
}

// RegionFlag returns the flag glyph for a region, with a globe fallback for
// AUTO and anything unrecognized.
func RegionFlag(region string) string {
	if flag, ok := regionFlags[strings.ToUpper(strings.TrimSpace(region))]; ok {
		return flag
	}
	return regionFlags[RegionAuto]
}

// ValidRegions lists the accepted codes in display order.
func ValidRegions() []string {
	out := make([]string, len(validRegions))
	copy(out, validRegions)
	return out
}

// ValidUID reports whether uid looks like a game account id: digits only,
// at least six of them.
func ValidUID(uid string) bool {
	if len(uid) < 6 {
		return false
	}
	for _, r := range uid {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

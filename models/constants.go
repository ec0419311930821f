package models

// Activity types partition the matchmaking pool; intents only pair within one.
const (
	ActivitySpeedDate = "speed_date"
	ActivityVoice     = "voice"
	ActivityAstro     = "astro"
)

// Intent statuses
const (
	StatusSearching = "searching"
	StatusPaired    = "paired"
)

// ActivityTypes lists every valid activity type.
var ActivityTypes = []string{ActivitySpeedDate, ActivityVoice, ActivityAstro}

// IsValidActivityType reports whether t is a known activity type.
func IsValidActivityType(t string) bool {
	for _, a := range ActivityTypes {
		if a == t {
			return true
		}
	}
	return false
}

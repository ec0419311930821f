package models

import "testing"

func TestIsValidActivityType(t *testing.T) {
	for _, a := range ActivityTypes {
		if !IsValidActivityType(a) {
			t.Errorf("IsValidActivityType(%q) = false", a)
		}
	}
	for _, a := range []string{"", "chess", "SPEED_DATE", "voice "} {
		if IsValidActivityType(a) {
			t.Errorf("IsValidActivityType(%q) = true", a)
		}
	}
}

func TestIntentIsSearching(t *testing.T) {
	if !(Intent{Status: StatusSearching}).IsSearching() {
		t.Error("searching intent reported not searching")
	}
	if (Intent{Status: StatusPaired}).IsSearching() {
		t.Error("paired intent reported searching")
	}
}

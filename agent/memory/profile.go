package memory

import (
	"strings"
)

// Profile is the long-lived preference record kept per verified customer.
type Profile struct {
	CustomerID       string   `json:"customer_id"`
	MusicPreferences []string `json:"music_preferences"`
}

// Merge overlays next onto prev field by field. A field that is empty in
// next keeps the value from prev.
func Merge(prev, next Profile) Profile {
	out := Profile{
		CustomerID:       prev.CustomerID,
		MusicPreferences: cleanList(prev.MusicPreferences),
	}
	if id := strings.TrimSpace(next.CustomerID); id != "" {
		out.CustomerID = id
	}
	if prefs := cleanList(next.MusicPreferences); len(prefs) > 0 {
		out.MusicPreferences = prefs
	}
	return out
}

// Format renders the profile the way it is shown to the music agent.
func Format(p *Profile) string {
	var prefs []string
	if p != nil {
		prefs = cleanList(p.MusicPreferences)
	}
	return "Music Preferences: " + strings.Join(prefs, ", ")
}

// cleanList collapses inner whitespace, newlines included, and drops empty
// entries.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.Join(strings.Fields(v), " "); v != "" {
			out = append(out, v)
		}
	}
	return out
}

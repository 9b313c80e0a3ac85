package memory

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestMergeProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	profileGen := gopter.CombineGens(
		gen.OneConstOf("", "1", "42"),
		gen.SliceOf(gen.OneConstOf("", " ", "rock", "jazz", "metal")),
	).Map(func(vals []interface{}) Profile {
		return Profile{CustomerID: vals[0].(string), MusicPreferences: vals[1].([]string)}
	})

	properties.Property("each field comes from next when non-empty, otherwise prev", prop.ForAll(
		func(prev, next Profile) bool {
			got := Merge(prev, next)

			wantID := prev.CustomerID
			if next.CustomerID != "" {
				wantID = next.CustomerID
			}
			wantPrefs := cleanList(prev.MusicPreferences)
			if n := cleanList(next.MusicPreferences); len(n) > 0 {
				wantPrefs = n
			}
			return got.CustomerID == wantID && reflect.DeepEqual(got.MusicPreferences, wantPrefs)
		},
		profileGen, profileGen,
	))

	properties.Property("merging an empty profile is identity up to cleanup", prop.ForAll(
		func(prev Profile) bool {
			got := Merge(prev, Profile{})
			return got.CustomerID == prev.CustomerID &&
				reflect.DeepEqual(got.MusicPreferences, cleanList(prev.MusicPreferences))
		},
		profileGen,
	))

	properties.TestingRun(t)
}

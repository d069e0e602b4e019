package league

import (
	"fmt"
	"strconv"
)

// SeasonFormat selects how a league spells a season value.
type SeasonFormat string

const (
	// FormatTwoYear renders seasons as "2023-24".
	FormatTwoYear SeasonFormat = "two_year"
	// FormatSingleYear renders seasons as "2023".
	FormatSingleYear SeasonFormat = "single_year"
)

// League describes one upstream league and the enumerable domains it
// contributes to combination generation.
type League struct {
	ID              string
	Code            string
	Name            string
	SeasonFormat    SeasonFormat
	FirstSeasonYear int
	// SeasonTypes is the league's season-type domain as the upstream spells
	// it. Duplicate spellings for the same concept ("Pre Season" vs
	// "Preseason") are kept apart on purpose: the upstream never merged
	// them, and merging here would hide rows filed under either spelling.
	SeasonTypes []string
}

// FormatSeason renders the season that starts in the given year using the
// league's format rule.
func (l League) FormatSeason(startYear int) string {
	if l.SeasonFormat == FormatSingleYear {
		return strconv.Itoa(startYear)
	}
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// Seasons enumerates every season from the league's first season through the
// season starting in throughYear, oldest first. The order is fixed so that
// combination spaces built from it are deterministic and diffable.
func (l League) Seasons(throughYear int) []string {
	if throughYear < l.FirstSeasonYear {
		return nil
	}

	out := make([]string, 0, throughYear-l.FirstSeasonYear+1)
	for year := l.FirstSeasonYear; year <= throughYear; year++ {
		out = append(out, l.FormatSeason(year))
	}
	return out
}

// Defaults returns the league catalog the ingestion targets out of the box.
// IDs follow the upstream convention ("00" NBA, "10" WNBA, "20" G League).
func Defaults() []League {
	return []League{
		{
			ID:              "00",
			Code:            "nba",
			Name:            "National Basketball Association",
			SeasonFormat:    FormatTwoYear,
			FirstSeasonYear: 1996,
			SeasonTypes: []string{
				"Regular Season",
				"Playoffs",
				"Pre Season",
				"Preseason",
				"All Star",
				"IST",
			},
		},
		{
			ID:              "10",
			Code:            "wnba",
			Name:            "Women's National Basketball Association",
			SeasonFormat:    FormatSingleYear,
			FirstSeasonYear: 1997,
			SeasonTypes: []string{
				"Regular Season",
				"Playoffs",
			},
		},
		{
			ID:              "20",
			Code:            "gleague",
			Name:            "G League",
			SeasonFormat:    FormatTwoYear,
			FirstSeasonYear: 2001,
			SeasonTypes: []string{
				"Regular Season",
				"Playoffs",
			},
		},
	}
}

// ByID looks a league up in a catalog.
func ByID(catalog []League, id string) (League, bool) {
	for _, item := range catalog {
		if item.ID == id {
			return item, true
		}
	}
	return League{}, false
}

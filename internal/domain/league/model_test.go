package league

import "testing"

func TestFormatSeason(t *testing.T) {
	t.Parallel()

	nba := League{SeasonFormat: FormatTwoYear}
	if got := nba.FormatSeason(1999); got != "1999-00" {
		t.Fatalf("century rollover: got %s", got)
	}
	if got := nba.FormatSeason(2023); got != "2023-24" {
		t.Fatalf("two-year format: got %s", got)
	}

	wnba := League{SeasonFormat: FormatSingleYear}
	if got := wnba.FormatSeason(2023); got != "2023" {
		t.Fatalf("single-year format: got %s", got)
	}
}

func TestSeasonsOldestFirst(t *testing.T) {
	t.Parallel()

	lg := League{SeasonFormat: FormatTwoYear, FirstSeasonYear: 1996}
	seasons := lg.Seasons(1998)
	want := []string{"1996-97", "1997-98", "1998-99"}
	if len(seasons) != len(want) {
		t.Fatalf("expected %d seasons, got %v", len(want), seasons)
	}
	for i := range want {
		if seasons[i] != want[i] {
			t.Fatalf("season %d = %s, want %s", i, seasons[i], want[i])
		}
	}

	if got := lg.Seasons(1990); got != nil {
		t.Fatalf("throughYear before first season must yield nothing, got %v", got)
	}
}

func TestDefaultsCatalog(t *testing.T) {
	t.Parallel()

	catalog := Defaults()

	nba, ok := ByID(catalog, "00")
	if !ok {
		t.Fatalf("NBA missing from catalog")
	}
	if nba.FirstSeasonYear != 1996 || len(nba.SeasonTypes) != 6 {
		t.Fatalf("unexpected NBA config: %+v", nba)
	}

	wnba, ok := ByID(catalog, "10")
	if !ok || wnba.SeasonFormat != FormatSingleYear {
		t.Fatalf("WNBA must use single-year seasons: %+v", wnba)
	}

	if _, ok := ByID(catalog, "99"); ok {
		t.Fatalf("unknown league id must not resolve")
	}
}

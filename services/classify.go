package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/grauwolf32/soccer/models"
)

var (
	// tierDigitRegexp captures "2. Bundesliga", "Ligue 2", "Division 3".
	tierDigitRegexp = regexp.MustCompile(`(?:^|\s)([1-9])(?:\.|\s|$)`)

	cupWords      = []string{"cup", "copa", "coppa", "coupe", "pokal", "beker", "taça", "кубок"}
	playoffWords  = []string{"play-off", "playoff", "play off"}
	friendlyWords = []string{"friendl", "товарищ"}

	tierWords = []struct {
		word string
		tier int
	}{
		{"premier", 1}, {"first", 1}, {"1st", 1}, {"primera", 1}, {"serie a", 1}, {"eredivisie", 1}, {"высш", 1},
		{"championship", 2}, {"second", 2}, {"2nd", 2}, {"segunda", 2}, {"serie b", 2}, {"eerste", 2},
		{"league one", 3}, {"third", 3}, {"3rd", 3}, {"serie c", 3},
		{"league two", 4}, {"fourth", 4}, {"4th", 4},
	}
)

// ClassifyLeague derives the competition kind and division tier from a
// competition name. Names that match nothing are treated as league play with
// an unknown tier.
func ClassifyLeague(name string) models.Classification {
	lower := strings.ToLower(name)

	c := models.Classification{Kind: models.KindLeague}
	switch {
	case containsAny(lower, playoffWords):
		c.Kind = models.KindPlayoff
	case containsAny(lower, cupWords):
		c.Kind = models.KindCup
	case containsAny(lower, friendlyWords):
		c.Kind = models.KindFriendly
	}

	if m := tierDigitRegexp.FindStringSubmatch(lower); m != nil {
		c.Division, _ = strconv.Atoi(m[1])
		return c
	}
	for _, tw := range tierWords {
		if strings.Contains(lower, tw.word) {
			c.Division = tw.tier
			break
		}
	}
	return c
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

package geoquiz

import "sort"

// Standing is one player's aggregate over a game or over all games.
type Standing struct {
	Rank    int    `json:"rank"`
	UserID  string `json:"userId"`
	Points  int    `json:"points"`
	Guesses int    `json:"guesses,omitempty"`
}

// AssignRanks sorts by points (then user id) and assigns tie-aware ranks:
// equal points share a rank and the next rank skips ahead ("1224").
func AssignRanks(s []Standing) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Points != s[j].Points {
			return s[i].Points > s[j].Points
		}
		return s[i].UserID < s[j].UserID
	})
	for i := range s {
		if i > 0 && s[i].Points == s[i-1].Points {
			s[i].Rank = s[i-1].Rank
			continue
		}
		s[i].Rank = i + 1
	}
}

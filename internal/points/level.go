package points

// Level describes the membership tier a point balance maps to, plus how
// far the user is from the next tier.  NextLevel and PointsToNext are
// nil at the top tier.
type Level struct {
	Points       int      `json:"points"`
	Level        string   `json:"level"`
	LevelName    string   `json:"levelName"`
	Benefits     []string `json:"benefits"`
	NextLevel    *string  `json:"nextLevel"`
	PointsToNext *int     `json:"pointsToNext"`
}

type tier struct {
	key      string
	name     string
	min      int
	benefits []string
}

// Tiers are ordered by ascending threshold; LevelFor picks the highest
// one whose minimum the balance reaches.  Negative balances still map
// to the bottom tier.
var tiers = []tier{
	{
		key:  "bronze",
		name: "Bronze Member",
		min:  0,
		benefits: []string{
			"Standard seat booking",
			"Up to 2 bookings per day",
		},
	},
	{
		key:  "silver",
		name: "Silver Member",
		min:  200,
		benefits: []string{
			"Priority seat booking",
			"Up to 3 bookings per day",
			"Extended booking window",
		},
	},
	{
		key:  "gold",
		name: "Gold Member",
		min:  500,
		benefits: []string{
			"Priority seat booking",
			"Up to 4 bookings per day",
			"Extended booking window",
			"Access to premium study rooms",
		},
	},
	{
		key:  "diamond",
		name: "Diamond Member",
		min:  1000,
		benefits: []string{
			"Highest booking priority",
			"Unlimited bookings per day",
			"Extended booking window",
			"Access to premium study rooms",
			"Dedicated support channel",
		},
	},
}

// LevelFor maps a point balance onto its membership tier.
func LevelFor(points int) Level {
	idx := 0
	for i, t := range tiers {
		if points >= t.min {
			idx = i
		}
	}
	cur := tiers[idx]

	lvl := Level{
		Points:    points,
		Level:     cur.key,
		LevelName: cur.name,
		Benefits:  cur.benefits,
	}
	if idx+1 < len(tiers) {
		next := tiers[idx+1]
		toNext := next.min - points
		lvl.NextLevel = &next.key
		lvl.PointsToNext = &toNext
	}
	return lvl
}

package models

// Rank is one step of the purchasable rank ladder. Ranks must be bought in
// order; DailyReward is the once-per-day rank pass payout.
type Rank struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	DailyReward int64  `json:"daily_reward"`
}

var Ranks = []Rank{
	{ID: "bronze", Name: "Bronze", Price: 20, DailyReward: 5},
	{ID: "silver", Name: "Silver", Price: 80, DailyReward: 10},
	{ID: "vip", Name: "VIP", Price: 150, DailyReward: 20},
	{ID: "platinum", Name: "Platinum", Price: 300, DailyReward: 25},
	{ID: "elite", Name: "Elite", Price: 500, DailyReward: 30},
	{ID: "grandmaster", Name: "Grandmaster", Price: 2000, DailyReward: 67},
	{ID: "minister", Name: "Minister", Price: 10000, DailyReward: 100},
}

// RankIndex returns the ladder position of a rank ID, or -1 if unknown.
func RankIndex(id string) int {
	for i, r := range Ranks {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// RankByID returns the rank definition for an ID.
func RankByID(id string) (Rank, bool) {
	i := RankIndex(id)
	if i < 0 {
		return Rank{}, false
	}
	return Ranks[i], true
}

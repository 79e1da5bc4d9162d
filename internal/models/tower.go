package models

import "time"

const (
	TowerLevels    = 9
	TowerModeTwo   = 2
	TowerModeThree = 3
)

// towerMultipliers maps mode to the cumulative payout multiplier per cleared
// level (index 0 = one level cleared). The values are fixed product
// constants and must not be recomputed.
var towerMultipliers = map[int][]float64{
	TowerModeTwo:   {1.5, 2.25, 3.38, 5.06, 7.59, 11.39, 17.09, 25.63, 38.44},
	TowerModeThree: {1.2, 1.44, 1.73, 2.07, 2.49, 2.99, 3.58, 4.30, 5.16},
}

// TowerMultiplier returns the cumulative multiplier after clearing `level`
// levels (1..9) in the given mode. Returns 0 for out-of-range input.
func TowerMultiplier(mode, level int) float64 {
	table, ok := towerMultipliers[mode]
	if !ok || level < 1 || level > len(table) {
		return 0
	}
	return table[level-1]
}

// TowerSession is one account's in-flight climb. Pattern holds the safe
// column set per level and is fixed at session start.
type TowerSession struct {
	Username  string    `json:"username"`
	Stake     int64     `json:"stake"`
	Mode      int       `json:"mode"`
	Level     int       `json:"level"`
	Pattern   [][]int   `json:"pattern"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// SafeAt reports whether the tile is in the safe set for the given level.
func (s *TowerSession) SafeAt(level, tile int) bool {
	if level < 0 || level >= len(s.Pattern) {
		return false
	}
	for _, safe := range s.Pattern[level] {
		if safe == tile {
			return true
		}
	}
	return false
}

// TowerWin is one entry in the bounded recent-wins feed.
type TowerWin struct {
	Username   string `json:"username"`
	Level      int    `json:"level"`
	Profit     int64  `json:"profit"`
	Multiplier string `json:"multiplier"`
}

package store

import "time"

const (
	keyAccount      = "account:%s"
	keyAccountIndex = "accounts"
	keySession      = "account:%s:session:%s"
	keyLedgerSeq    = "ledger:seq"
	keyLedgerAll    = "ledger:entries"
	keyLedgerUser   = "ledger:account:%s"
	keyCoinflipWins = "coinflip:top_wins"
	keyTowerSession = "tower:session:%s"
	keyTowerWins    = "tower:recent_wins"
	keyDuel         = "duel:%s"
	keyDuelIndex    = "duel:index"
	keyLottery      = "lottery:state"

	// TTLTowerSession guards against sessions orphaned by a dead process;
	// live sessions are rewritten on every selection.
	TTLTowerSession = 24 * time.Hour
)

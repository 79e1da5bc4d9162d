package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"campus-arcade-backend/internal/clock"
	"campus-arcade-backend/internal/models"
	"campus-arcade-backend/internal/rng"
	"campus-arcade-backend/internal/store"
)

var (
	ErrLotteryActive      = errors.New("a lottery is already running")
	ErrLotteryNotActive   = errors.New("no active lottery")
	ErrInvalidTicketCount = errors.New("invalid ticket count")
	ErrInvalidLottery     = errors.New("invalid lottery parameters")
)

// Lottery runs the single admin-funded raffle. The prize pool is fixed when
// the round is created; ticket revenue never feeds it. Draw odds are
// proportional to tickets held.
type Lottery struct {
	ledger   *Ledger
	store    store.Store
	clock    clock.Clock
	random   rng.Rand
	notifier Broadcaster

	mu sync.Mutex
}

func NewLottery(ledger *Ledger, st store.Store, clk clock.Clock, random rng.Rand, notifier Broadcaster) *Lottery {
	if notifier == nil {
		notifier = NopBroadcaster{}
	}
	return &Lottery{ledger: ledger, store: st, clock: clk, random: random, notifier: notifier}
}

// Create opens a new round. Fails while another round is running.
func (l *Lottery) Create(ctx context.Context, ticketPrice, prizePool int64, duration time.Duration) (*models.LotteryRound, error) {
	if ticketPrice < 1 || prizePool < 1 || duration < time.Hour {
		return nil, ErrInvalidLottery
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.currentRound(ctx)
	if err != nil {
		return nil, err
	}
	if current != nil && current.Active {
		return nil, ErrLotteryActive
	}

	now := l.clock.Now()
	round := &models.LotteryRound{
		Active:      true,
		TicketPrice: ticketPrice,
		PrizePool:   prizePool,
		EndTime:     now.Add(duration),
		CreatedAt:   now,
		Tickets:     make(map[string]int),
	}
	if err := l.store.SaveLottery(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to save lottery: %v", err)
	}
	return round, nil
}

// Buy purchases count tickets for the caller. The spend is destroyed, not
// pooled.
func (l *Lottery) Buy(ctx context.Context, username string, count int) (*models.LotteryRound, error) {
	if count < 1 {
		return nil, ErrInvalidTicketCount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	round, err := l.activeRound(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := l.ledger.Debit(ctx, username, int64(count)*round.TicketPrice, "lottery_ticket"); err != nil {
		return nil, err
	}

	if round.Tickets == nil {
		round.Tickets = make(map[string]int)
	}
	round.Tickets[username] += count

	if err := l.store.SaveLottery(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to save lottery: %v", err)
	}
	return round, nil
}

// Status returns the current round, first resolving it if its end time has
// passed.
func (l *Lottery) Status(ctx context.Context) (*models.LotteryRound, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	round, err := l.currentRound(ctx)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, ErrLotteryNotActive
	}

	if round.Active && !l.clock.Now().Before(round.EndTime) {
		if err := l.resolve(ctx, round); err != nil {
			return nil, err
		}
	}
	return round, nil
}

// End resolves the active round immediately regardless of its end time.
func (l *Lottery) End(ctx context.Context) (*models.LotteryRound, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	round, err := l.activeRound(ctx)
	if err != nil {
		return nil, err
	}
	if err := l.resolve(ctx, round); err != nil {
		return nil, err
	}
	return round, nil
}

// Cancel aborts the active round. Ticket spends are not refunded.
func (l *Lottery) Cancel(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	round, err := l.activeRound(ctx)
	if err != nil {
		return err
	}

	round.Active = false
	round.PrizePool = 0
	round.Tickets = nil
	if err := l.store.SaveLottery(ctx, round); err != nil {
		return fmt.Errorf("failed to save lottery: %v", err)
	}
	return nil
}

// Sweep resolves the round if it has expired. Called from the background
// ticker.
func (l *Lottery) Sweep(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	round, err := l.currentRound(ctx)
	if err != nil {
		log.Printf("lottery sweep: %v", err)
		return
	}
	if round == nil || !round.Active || l.clock.Now().Before(round.EndTime) {
		return
	}
	if err := l.resolve(ctx, round); err != nil {
		log.Printf("lottery sweep: %v", err)
	}
}

// resolve draws a winner weighted by ticket count, pays the pool, and
// deactivates the round. With no tickets sold the round just closes.
func (l *Lottery) resolve(ctx context.Context, round *models.LotteryRound) error {
	round.Active = false

	var entries []string
	total := 0
	for username, count := range round.Tickets {
		total += count
		for i := 0; i < count; i++ {
			entries = append(entries, username)
		}
	}

	if total == 0 {
		round.Tickets = nil
		if err := l.store.SaveLottery(ctx, round); err != nil {
			return fmt.Errorf("failed to save lottery: %v", err)
		}
		return nil
	}

	winner := entries[l.random.Intn(len(entries))]
	if _, err := l.ledger.Credit(ctx, winner, round.PrizePool, "lottery_win"); err != nil {
		return err
	}

	round.Winner = winner
	round.WinnerTickets = round.Tickets[winner]
	round.TotalTickets = total
	round.WonAt = l.clock.Now()
	round.WonAmount = round.PrizePool
	round.Tickets = nil

	if err := l.store.SaveLottery(ctx, round); err != nil {
		return fmt.Errorf("failed to save lottery: %v", err)
	}

	l.notifier.NotifyLotteryResult(winner, round.WonAmount)
	return nil
}

func (l *Lottery) currentRound(ctx context.Context) (*models.LotteryRound, error) {
	round, err := l.store.GetLottery(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return round, nil
}

func (l *Lottery) activeRound(ctx context.Context) (*models.LotteryRound, error) {
	round, err := l.currentRound(ctx)
	if err != nil {
		return nil, err
	}
	if round == nil || !round.Active {
		return nil, ErrLotteryNotActive
	}
	return round, nil
}

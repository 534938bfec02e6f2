package worker

import (
	"log"
	"time"

	"github.com/tablemaker/internal/repository"
)

// TokenSweeper periodically purges expired password reset tokens so
// stale rows do not accumulate between issue/consume cycles.
type TokenSweeper struct {
	tokenRepo repository.PasswordResetTokenRepository
	tokenTTL  time.Duration
	interval  time.Duration
	stopChan  chan struct{}
}

// NewTokenSweeper creates a new sweeper
func NewTokenSweeper(
	tokenRepo repository.PasswordResetTokenRepository,
	tokenTTL time.Duration,
	interval time.Duration,
) *TokenSweeper {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &TokenSweeper{
		tokenRepo: tokenRepo,
		tokenTTL:  tokenTTL,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the sweep loop
func (w *TokenSweeper) Start() {
	log.Printf("Token sweeper started with interval: %v", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.stopChan:
			log.Println("Token sweeper stopped")
			return
		}
	}
}

// Stop stops the sweep loop
func (w *TokenSweeper) Stop() {
	close(w.stopChan)
}

func (w *TokenSweeper) sweep() {
	cutoff := time.Now().Add(-w.tokenTTL)
	removed, err := w.tokenRepo.DeleteExpired(cutoff)
	if err != nil {
		log.Printf("Token sweeper: failed to purge expired tokens: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Token sweeper: purged %d expired tokens", removed)
	}
}

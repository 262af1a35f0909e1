package jobs

import (
	"context"
	"time"

	"bizadmin/internal/logger"
)

// TokenPurger deletes refresh tokens that expired or were revoked before cutoff.
type TokenPurger interface {
	PurgeTokens(ctx context.Context, retention time.Duration) (int64, error)
}

// TokenPurgeJob wraps p with the configured retention.
func TokenPurgeJob(p TokenPurger, retention time.Duration) Job {
	return func(ctx context.Context) error {
		n, err := p.PurgeTokens(ctx, retention)
		if err != nil {
			return err
		}
		logger.From(ctx).Info("refresh tokens purged", logger.Count(int(n)))
		return nil
	}
}

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/wrenfold/creatorscope/analytics"
)

// CreatorSnapshot implements analytics.Source: it resolves a creator id
// to the immutable snapshot the engine computes over. Unknown ids map to
// analytics.ErrUnknownCreator so a comparison batch can skip them;
// anything else is a hard storage failure.
func (s *Store) CreatorSnapshot(ctx context.Context, id string) (*analytics.Snapshot, error) {
	c, err := s.GetCreator(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", analytics.ErrUnknownCreator, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load creator %s: %w", id, err)
	}

	videos, err := s.VideosByCreator(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load videos for %s: %w", id, err)
	}

	return &analytics.Snapshot{
		Creator: analytics.Creator{
			ID:            c.ID,
			Handle:        c.Handle,
			Niche:         c.Niche,
			FollowerCount: c.FollowerCount,
		},
		Videos: videos,
	}, nil
}

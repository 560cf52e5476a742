package api

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// StatusSource provides the manager and live stream state.
type StatusSource interface {
	Manager(ctx context.Context) (ManagerInfo, error)
	Live(ctx context.Context) (LiveInfo, error)
}

// LoadStatus fetches the manager and live info concurrently.
func LoadStatus(ctx context.Context, src StatusSource) (ManagerInfo, LiveInfo, error) {
	var (
		manager ManagerInfo
		live    LiveInfo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		manager, err = src.Manager(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		live, err = src.Live(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return ManagerInfo{}, LiveInfo{}, err
	}
	return manager, live, nil
}

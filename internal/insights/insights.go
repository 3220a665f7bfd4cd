// Package insights serves aggregate counts over stored reports for the
// public statistics page. Read-only; it consumes the report data but owns
// none of it.
package insights

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// topN bounds every top-N aggregate.
const topN = 10

// CountItem is one label with its report count.
type CountItem struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Overview is the aggregate snapshot returned to the public page.
type Overview struct {
	TotalReports  int         `json:"total_reports"`
	TopCountries  []CountItem `json:"top_countries"`
	TopRoles      []CountItem `json:"top_roles"`
	TopIssueTypes []CountItem `json:"top_issue_types"`
}

// Store provides the aggregate queries.
type Store interface {
	TotalReports(ctx context.Context) (int, error)
	TopCountries(ctx context.Context, limit int) ([]CountItem, error)
	TopRoles(ctx context.Context, limit int) ([]CountItem, error)
	TopIssueTypes(ctx context.Context, limit int) ([]CountItem, error)
}

// Service fans the aggregate queries out in parallel.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Overview gathers all aggregates, cancelling the rest on first failure.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	g, ctx := errgroup.WithContext(ctx)
	var out Overview

	g.Go(func() error {
		total, err := s.store.TotalReports(ctx)
		if err != nil {
			return err
		}
		out.TotalReports = total
		return nil
	})
	g.Go(func() error {
		items, err := s.store.TopCountries(ctx, topN)
		if err != nil {
			return err
		}
		out.TopCountries = items
		return nil
	})
	g.Go(func() error {
		items, err := s.store.TopRoles(ctx, topN)
		if err != nil {
			return err
		}
		out.TopRoles = items
		return nil
	})
	g.Go(func() error {
		items, err := s.store.TopIssueTypes(ctx, topN)
		if err != nil {
			return err
		}
		out.TopIssueTypes = items
		return nil
	})

	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

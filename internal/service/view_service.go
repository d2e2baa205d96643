package service

import (
	"fmt"
	"slices"

	"github.com/hjkwon/Asset-Dashboard-Backend/internal/apperrors"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/model"
)

// GroupByColumns are the classification columns a caller may break an
// allocation view down by.
var GroupByColumns = []string{
	model.ColTheme,
	model.ColBroker,
	model.ColInstrument,
	model.ColCategory,
}

// ViewService applies the password-gated visibility rule and computes the
// aggregated views served by the dashboard. It never mutates a dataset;
// every view is a derived copy.
type ViewService struct {
	adminSecret string
}

// NewViewService creates a ViewService gating full access behind the given
// admin secret.
func NewViewService(adminSecret string) *ViewService {
	return &ViewService{adminSecret: adminSecret}
}

// Scope selects the row subset visible to the supplied credential.
//
// An exact match on the admin secret unlocks every row (label 전체) plus the
// distinct owner list so the caller can narrow to one owner via
// ownerSelection. Anything else, including a wrong password, silently
// narrows to the 공동 rows; only the WrongCredential indicator
// distinguishes "wrong password" from "no password". No partial or
// case-insensitive match is accepted.
//
// Scope never fails: an empty result is a normal "no data" state.
func (s *ViewService) Scope(ds *model.Dataset, credential, ownerSelection string) model.ScopedView {
	if s.adminSecret != "" && credential == s.adminSecret {
		view := model.ScopedView{
			Label:         model.OwnerAll,
			Authenticated: true,
			Owners:        append([]string{model.OwnerAll}, ds.Owners()...),
		}
		if ownerSelection != "" && ownerSelection != model.OwnerAll {
			view.Rows = filterByOwner(ds.Rows, ownerSelection)
			view.Label = ownerSelection
		} else {
			view.Rows = slices.Clone(ds.Rows)
		}
		return view
	}

	return model.ScopedView{
		Rows:            filterByOwner(ds.Rows, model.OwnerPublic),
		Label:           model.OwnerPublic,
		WrongCredential: credential != "",
	}
}

// FilterByDateRange narrows a scoped view to rows whose AsOfDate falls
// inside the inclusive range. The predicate is independent of the access
// scope, so applying it before or after Scope yields the same rows.
func (s *ViewService) FilterByDateRange(view model.ScopedView, dr model.DateRange) model.ScopedView {
	filtered := view
	filtered.Rows = make([]model.Row, 0, len(view.Rows))
	for _, r := range view.Rows {
		if dr.Contains(r.AsOfDate) {
			filtered.Rows = append(filtered.Rows, r)
		}
	}
	return filtered
}

// Summary aggregates the latest-date slice of the view: total market value,
// total principal, total gain and return on investment. The gain is
// recomputed from market value and principal so the ROI stays consistent
// even when the sheet's 평가손익 column lags; the column sum is reported
// alongside for reconciliation.
func (s *ViewService) Summary(view model.ScopedView) model.Summary {
	if len(view.Rows) == 0 {
		return model.Summary{}
	}

	latest := view.Rows[0].AsOfDate
	for _, r := range view.Rows[1:] {
		if r.AsOfDate.After(latest) {
			latest = r.AsOfDate
		}
	}

	summary := model.Summary{AsOf: latest.Format("2006-01-02"), HasData: true}
	for _, r := range view.Rows {
		if !r.AsOfDate.Equal(latest) {
			continue
		}
		summary.TotalMarketValue += r.MarketValue
		summary.TotalPrincipal += r.Principal
		summary.TotalGain += r.ComputedGain()
		summary.ReportedGain += r.UnrealizedGain
	}
	if summary.TotalPrincipal > 0 {
		summary.ROIPercent = round(summary.TotalGain / summary.TotalPrincipal * 100)
	}
	return summary
}

// Allocation breaks the latest-date slice of the view down by one of the
// classification columns, summing market value and principal per group.
// Groups are ordered by market value, descending.
func (s *ViewService) Allocation(view model.ScopedView, groupBy string) ([]model.AllocationEntry, error) {
	if !slices.Contains(GroupByColumns, groupBy) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownGroupBy, groupBy)
	}
	if len(view.Rows) == 0 {
		return []model.AllocationEntry{}, nil
	}

	latest := view.Rows[0].AsOfDate
	for _, r := range view.Rows[1:] {
		if r.AsOfDate.After(latest) {
			latest = r.AsOfDate
		}
	}

	keys := []string{}
	groups := map[string]*model.AllocationEntry{}
	for _, r := range view.Rows {
		if !r.AsOfDate.Equal(latest) {
			continue
		}
		key := groupKey(r, groupBy)
		entry, ok := groups[key]
		if !ok {
			entry = &model.AllocationEntry{Key: key}
			groups[key] = entry
			keys = append(keys, key)
		}
		entry.MarketValue += r.MarketValue
		entry.Principal += r.Principal
	}

	entries := make([]model.AllocationEntry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, *groups[key])
	}
	slices.SortStableFunc(entries, func(a, b model.AllocationEntry) int {
		switch {
		case a.MarketValue > b.MarketValue:
			return -1
		case a.MarketValue < b.MarketValue:
			return 1
		default:
			return 0
		}
	})
	return entries, nil
}

// Timeline sums market value and principal per date across the whole view,
// ordered by date ascending. This backs the growth chart.
func (s *ViewService) Timeline(view model.ScopedView) []model.TimelinePoint {
	dates := []string{}
	points := map[string]*model.TimelinePoint{}
	for _, r := range view.Rows {
		key := r.AsOfDate.Format("2006-01-02")
		point, ok := points[key]
		if !ok {
			point = &model.TimelinePoint{Date: key}
			points[key] = point
			dates = append(dates, key)
		}
		point.MarketValue += r.MarketValue
		point.Principal += r.Principal
	}

	slices.Sort(dates)
	timeline := make([]model.TimelinePoint, 0, len(dates))
	for _, d := range dates {
		timeline = append(timeline, *points[d])
	}
	return timeline
}

func filterByOwner(rows []model.Row, owner string) []model.Row {
	filtered := []model.Row{}
	for _, r := range rows {
		if r.Owner == owner {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func groupKey(r model.Row, groupBy string) string {
	switch groupBy {
	case model.ColTheme:
		return r.Theme
	case model.ColBroker:
		return r.Broker
	case model.ColInstrument:
		return r.InstrumentName
	default:
		return r.Category
	}
}

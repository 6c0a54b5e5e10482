package service

import (
	"context"
	"errors"
	"log/slog"

	"marketplace_backend/internal/listings/query"
	"marketplace_backend/internal/listings/repository"
	"marketplace_backend/internal/listings/transport"
)

// NormalizeRelation maps unknown relation types to RelationSimilar.
func NormalizeRelation(relationType string) string {
	switch relationType {
	case transport.RelationCategory, transport.RelationBrand, transport.RelationLocation:
		return relationType
	default:
		return transport.RelationSimilar
	}
}

// RelatedItems returns active, published listings sharing attributes with
// the listing itemID, never including itemID itself. A missing reference or
// a store error yields an empty result.
func (s *Service) RelatedItems(ctx context.Context, itemID int64, relationType string, limit int) transport.RelatedItemsResponse {
	relationType = NormalizeRelation(relationType)
	resp := transport.RelatedItemsResponse{
		Items:        []transport.SearchResultItem{},
		RelationType: relationType,
	}

	if limit < 1 {
		limit = s.cfg.GetRelatedDefaultLimit()
	}
	if maxLimit := s.cfg.GetRelatedMaxLimit(); maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	refs, err := s.store.GetListingRefs(ctx, itemID)
	if errors.Is(err, repository.ErrListingNotFound) {
		s.log.WithContext(ctx).Info("related reference not found", slog.Int64("listing_id", itemID))
		return resp
	}
	if err != nil {
		s.log.DatabaseError(ctx, "listings.related.reference", err)
		return resp
	}

	match, ok := relatedMatch(refs, relationType)
	if !ok {
		return resp
	}

	preds := append(match,
		query.Eq{Column: query.ColumnIsActive, Value: true},
		query.Eq{Column: query.ColumnIsPublished, Value: true},
		query.Ne{Column: query.ColumnID, Value: itemID},
	)

	rows, err := s.store.FindListings(ctx, repository.Query{
		Predicates: preds,
		Order: []query.Order{
			{Column: query.ColumnIsFeatured, Ascending: false},
			{Column: query.ColumnCreatedAt, Ascending: false},
			{Column: query.ColumnID, Ascending: false},
		},
		Limit: limit,
	})
	if err != nil {
		s.log.DatabaseError(ctx, "listings.related", err)
		return resp
	}

	for _, row := range rows {
		resp.Items = append(resp.Items, s.mapper.mapRelated(row))
	}
	resp.Total = len(resp.Items)
	return resp
}

// relatedMatch derives the match predicates for a relation type. It reports
// false when the reference lacks an attribute the relation requires.
func relatedMatch(refs repository.ListingRefs, relationType string) ([]query.Predicate, bool) {
	switch relationType {
	case transport.RelationCategory:
		if refs.CategoryID == nil {
			return nil, false
		}
		return []query.Predicate{query.Eq{Column: query.ColumnCategoryID, Value: *refs.CategoryID}}, true
	case transport.RelationBrand:
		if refs.BrandID == nil {
			return nil, false
		}
		return []query.Predicate{query.Eq{Column: query.ColumnBrandID, Value: *refs.BrandID}}, true
	case transport.RelationLocation:
		if refs.CountryID == nil || refs.StateID == nil {
			return nil, false
		}
		return []query.Predicate{
			query.Eq{Column: query.ColumnCountryID, Value: *refs.CountryID},
			query.Eq{Column: query.ColumnStateID, Value: *refs.StateID},
		}, true
	default:
		if refs.CategoryID == nil {
			return nil, false
		}
		preds := []query.Predicate{query.Eq{Column: query.ColumnCategoryID, Value: *refs.CategoryID}}
		if refs.BrandID != nil {
			preds = append(preds, query.Eq{Column: query.ColumnBrandID, Value: *refs.BrandID})
		}
		return preds, true
	}
}

package service

import (
	"context"
	"errors"
	"testing"

	"marketplace_backend/internal/listings/repository"
	"marketplace_backend/internal/listings/transport"

	"github.com/stretchr/testify/require"
)

func TestRelatedItemsByRelationType(t *testing.T) {
	svc := newTestService(t, loadFixtureStore(t), nil)

	cases := []struct {
		relation string
		want     []int64
	}{
		{transport.RelationCategory, []int64{44, 47, 43}},
		{transport.RelationBrand, []int64{47, 43}},
		{transport.RelationLocation, []int64{47, 43}},
		{transport.RelationSimilar, []int64{47, 43}},
	}

	for _, tc := range cases {
		t.Run(tc.relation, func(t *testing.T) {
			resp := svc.RelatedItems(context.Background(), 42, tc.relation, 0)
			require.Equal(t, tc.relation, resp.RelationType)
			require.Equal(t, tc.want, itemIDs(resp.Items))
			require.Equal(t, len(tc.want), resp.Total)
		})
	}
}

func TestRelatedItemsNeverIncludeReference(t *testing.T) {
	svc := newTestService(t, loadFixtureStore(t), nil)

	for _, id := range []int64{42, 43, 44, 45, 46, 47} {
		for _, relation := range []string{"category", "brand", "location", "similar", "unknown"} {
			resp := svc.RelatedItems(context.Background(), id, relation, 50)
			require.NotContains(t, itemIDs(resp.Items), id, "relation %s", relation)
			for _, item := range resp.Items {
				require.True(t, item.IsActive)
				require.True(t, item.IsPublished)
			}
		}
	}
}

func TestRelatedItemsUnknownRelationIsSimilar(t *testing.T) {
	svc := newTestService(t, loadFixtureStore(t), nil)

	resp := svc.RelatedItems(context.Background(), 42, "bogus", 0)
	require.Equal(t, transport.RelationSimilar, resp.RelationType)
	require.Equal(t, []int64{47, 43}, itemIDs(resp.Items))
}

func TestRelatedItemsRespectsLimit(t *testing.T) {
	svc := newTestService(t, loadFixtureStore(t), nil)

	resp := svc.RelatedItems(context.Background(), 42, transport.RelationCategory, 1)
	require.Equal(t, []int64{44}, itemIDs(resp.Items))
	require.Equal(t, 1, resp.Total)
}

func TestRelatedItemsUsesLightProjection(t *testing.T) {
	svc := newTestService(t, loadFixtureStore(t), nil)

	resp := svc.RelatedItems(context.Background(), 43, transport.RelationBrand, 0)
	require.NotEmpty(t, resp.Items)

	item := resp.Items[0]
	require.Equal(t, int64(47), item.ID)
	require.Equal(t, "cat-mini-excavator", item.Slug)
	require.NotNil(t, item.Category)
	require.NotNil(t, item.Brand)
	require.Nil(t, item.Location)
	require.Nil(t, item.Year)
	require.NotNil(t, item.Images)
}

func TestRelatedItemsMissingReference(t *testing.T) {
	svc := newTestService(t, loadFixtureStore(t), nil)

	resp := svc.RelatedItems(context.Background(), 999, transport.RelationBrand, 0)
	require.Equal(t, transport.RelatedItemsResponse{
		Items:        []transport.SearchResultItem{},
		Total:        0,
		RelationType: transport.RelationBrand,
	}, resp)
}

func TestRelatedItemsMissingAttributeYieldsEmpty(t *testing.T) {
	store := repository.NewMemoryStore()
	store.AddListing(repository.Row{"id": 1, "title": "No brand", "category_id": 5, "is_active": true, "is_published": true})
	store.AddListing(repository.Row{"id": 2, "title": "Other", "category_id": 5, "is_active": true, "is_published": true})
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	require.Empty(t, svc.RelatedItems(ctx, 1, transport.RelationBrand, 0).Items)
	require.Empty(t, svc.RelatedItems(ctx, 1, transport.RelationLocation, 0).Items)
	require.Equal(t, []int64{2}, itemIDs(svc.RelatedItems(ctx, 1, transport.RelationSimilar, 0).Items))
}

func TestRelatedItemsDegradeOnStoreError(t *testing.T) {
	for _, op := range []string{repository.OpGetListingRefs, repository.OpFindListings} {
		t.Run(op, func(t *testing.T) {
			store := loadFixtureStore(t)
			store.FailOn(op, errors.New("connection refused"))
			svc := newTestService(t, store, nil)

			resp := svc.RelatedItems(context.Background(), 42, transport.RelationCategory, 0)
			require.NotNil(t, resp.Items)
			require.Empty(t, resp.Items)
			require.Equal(t, 0, resp.Total)
			require.Equal(t, transport.RelationCategory, resp.RelationType)
		})
	}
}

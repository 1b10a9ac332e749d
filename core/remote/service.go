package remote

import "context"

// Service is the raw remote API. Types are resource names such as
// "Campaigns" or "AdvertiserLandingPages"; nested resources are addressed
// with a path ("Campaigns/123/CampaignCreativeAssociations").
type Service interface {
	// List returns one page of entities found under listField.
	List(ctx context.Context, typ, listField string, params Options) (Page, error)
	// Get returns one entity by id.
	Get(ctx context.Context, typ, id string) (Entity, error)
	// Insert creates obj and returns the stored entity.
	Insert(ctx context.Context, typ string, obj Entity) (Entity, error)
	// Update replaces obj and returns the stored entity.
	Update(ctx context.Context, typ string, obj Entity) (Entity, error)
}

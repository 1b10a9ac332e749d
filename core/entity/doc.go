// Package entity is the load and push engine shared by every entity type.
//
// Entity specifics live in strategies. A Strategy describes its tables, keys,
// references and child relationships through a Descriptor and maps rows onto
// remote objects in ProcessPush. Optional steps are picked up when the
// strategy implements RowMapper, PushPreProcessor, PushPostProcessor,
// SearchOptionsProcessor, PushJobPreparer or ItemFetcher.
//
// Engine runs the lifecycles:
//
//	load: IdentifyItemsToLoad -> FetchItemsToLoad -> Load
//	push: CreatePushJobs -> Push (per row) -> UpdateFeed
//
// Push walks each row through the states new, fetchingBase,
// resolvingChildren, resolvingReferences, mappingFields, committing,
// recordingId, postProcessing and done, or failed on error.
package entity

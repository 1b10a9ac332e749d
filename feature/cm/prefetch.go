package cm

import "bulkdozer/core/entity"

func sites(field string) entity.PreFetchConfig {
	return entity.PreFetchConfig{Entity: sitesType, ListField: "sites", FilterName: "ids", FieldName: field}
}

func placementGroups(field string) entity.PreFetchConfig {
	return entity.PreFetchConfig{Entity: PlacementGroups, ListField: "placementGroups", FilterName: "ids", FieldName: field}
}

func campaigns(field string) entity.PreFetchConfig {
	return entity.PreFetchConfig{Entity: Campaigns, ListField: "campaigns", FilterName: "ids", FieldName: field}
}

// LoadPreFetch returns the related entities listed ahead of mapping the
// loaded items of name. Field names are remote item fields.
func LoadPreFetch(name string) []entity.PreFetchConfig {
	switch name {
	case PlacementGroups:
		return []entity.PreFetchConfig{campaigns("campaignId"), sites("siteId")}
	case Placements:
		return []entity.PreFetchConfig{campaigns("campaignId"), sites("siteId"), placementGroups("placementGroupId")}
	case Ads, Creatives, EventTags:
		return []entity.PreFetchConfig{campaigns("campaignId")}
	default:
		return nil
	}
}

// PushPreFetch returns the related entities listed ahead of pushing the
// rows of name. Field names are table columns.
func PushPreFetch(name string) []entity.PreFetchConfig {
	switch name {
	case PlacementGroups:
		return []entity.PreFetchConfig{campaigns(FieldCampaignID), sites(FieldSiteID)}
	case Placements:
		return []entity.PreFetchConfig{campaigns(FieldCampaignID), sites(FieldSiteID), placementGroups(FieldPlacementGroupID)}
	default:
		return nil
	}
}

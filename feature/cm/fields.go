package cm

// Column labels of the workbook tables.
const (
	FieldArchived = "Archived"

	FieldAdvertiserID = "Advertiser ID"

	FieldSiteID   = "Site ID"
	FieldSiteName = "Site Name"

	FieldLandingPageID   = "Landing Page ID"
	FieldLandingPageName = "Landing Page Name"
	FieldLandingPageURL  = "Landing Page URL"

	FieldCampaignID        = "Campaign ID"
	FieldCampaignName      = "Campaign Name"
	FieldCampaignStartDate = "Campaign Start Date"
	FieldCampaignEndDate   = "Campaign End Date"

	FieldEventTagID      = "Event Tag ID"
	FieldEventTagName    = "Event Tag Name"
	FieldEventTagStatus  = "Event Tag Status"
	FieldEnableByDefault = "Enable By Default"
	FieldEventTagType    = "Event Tag Type"
	FieldEventTagURL     = "Event Tag URL"
	FieldEnabled         = "Enabled"

	FieldPlacementGroupID        = "Placement Group ID"
	FieldPlacementGroupName      = "Placement Group Name"
	FieldPlacementGroupType      = "Placement Group Type"
	FieldPlacementGroupStartDate = "Placement Group Start Date"
	FieldPlacementGroupEndDate   = "Placement Group End Date"
	FieldPlacementGroupPricing   = "Pricing Type"

	FieldPlacementID                  = "Placement ID"
	FieldPlacementName                = "Placement Name"
	FieldActiveView                   = "Active View and Verification"
	FieldAdBlocking                   = "Ad Blocking"
	FieldPlacementStartDate           = "Placement Start Date"
	FieldPlacementEndDate             = "Placement End Date"
	FieldPlacementType                = "Type"
	FieldPricingScheduleCost          = "Pricing Schedule Cost Structure"
	FieldPricingScheduleTestingStart  = "Pricing Schedule Testing Starts"
	FieldSkippable                    = "Skippable"
	FieldSkipOffsetSeconds            = "Skip Offset Seconds"
	FieldSkipOffsetPercentage         = "Skip Offset Percentage"
	FieldProgressOffsetSeconds        = "Progress Offset Seconds"
	FieldProgressOffsetPercentage     = "Progress Offset Percentage"
	FieldPlacementAdditionalKeyValues = "Additional Key Values"
	FieldAssetSize                    = "Asset Size"

	FieldPricingPeriodStart = "Pricing Period Start Date"
	FieldPricingPeriodEnd   = "Pricing Period End Date"
	FieldPricingPeriodRate  = "Pricing Period Rate"
	FieldPricingPeriodUnits = "Pricing Period Units"

	FieldCreativeID   = "Creative ID"
	FieldCreativeName = "Creative Name"
	FieldCreativeType = "Creative Type"

	FieldCreativeRotation         = "Creative Rotation"
	FieldCreativeRotationWeight   = "Creative Rotation Weight"
	FieldCreativeRotationSequence = "Creative Rotation Sequence"
	FieldAdPriority               = "Ad Priority"
	FieldAdID                     = "Ad ID"
	FieldAdName                   = "Ad Name"
	FieldAdStartDate              = "Ad Start Date"
	FieldAdEndDate                = "Ad End Date"
	FieldAdActive                 = "Ad Active"
	FieldAdArchived               = "Ad Archived"
	FieldAssignmentStartDate      = "Start Date"
	FieldAssignmentEndDate        = "End Date"
	FieldHardCutoff               = "Hard Cutoff"
	FieldAdType                   = "Ad Type"
	FieldCustomURL                = "Custom URL"
)

// Workbook tables.
const (
	TableCampaign        = "Campaign"
	TableLandingPage     = "Landing Page"
	TableEventTag        = "Event Tag"
	TablePlacementGroup  = "Placement Group"
	TablePlacement       = "Placement"
	TablePricingSchedule = "Placement Pricing Schedule"
	TableCreative        = "Creative"
	TableAd              = "Ad"
	TableAdPlacement     = "Ad Placement Assignment"
	TableAdCreative      = "Ad Creative Assignment"
	TableAdEventTag      = "Event Tag Ad Assignment"
)

// Registered entity names.
const (
	Campaigns              = "Campaigns"
	LandingPages           = "AdvertiserLandingPages"
	EventTags              = "EventTags"
	Creatives              = "Creatives"
	PlacementGroups        = "PlacementGroups"
	Placements             = "Placements"
	Ads                    = "Ads"
	PricingSchedules       = "PlacementPricingSchedule"
	AdCreativeAssignments  = "AdCreativeAssignment"
	AdPlacementAssignments = "AdPlacementAssignment"
	AdEventTagAssignments  = "AdEventTagAssignment"
)

// Remote collections that are read but never loaded into a table.
const sitesType = "Sites"

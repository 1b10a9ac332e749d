package hierarchy

import (
	"bulkdozer/core/remote"
	"bulkdozer/core/utils"
)

// Input holds the flat entity lists the tree is built from.
type Input struct {
	Campaigns       []remote.Entity `json:"campaigns"`
	PlacementGroups []remote.Entity `json:"placementGroups"`
	Placements      []remote.Entity `json:"placements"`
	Ads             []remote.Entity `json:"ads"`
	Creatives       []remote.Entity `json:"creatives"`
	LandingPages    []remote.Entity `json:"landingPages"`
}

// Build assembles the campaign tree. Entities whose parent cannot be found
// are left out and reported in Tree.Orphans, and so are their descendants:
// children of an orphan name the orphan as their missing parent.
func Build(in Input) *Tree {
	tree := &Tree{Campaigns: make([]*Campaign, 0, len(in.Campaigns))}

	creatives := index(in.Creatives)
	landingPages := index(in.LandingPages)

	campaigns := make(map[string]*Campaign)
	for _, e := range in.Campaigns {
		c := &Campaign{Entity: e, PlacementGroups: []*PlacementGroup{}, Placements: []*Placement{}}
		campaigns[remote.ID(e)] = c
		tree.Campaigns = append(tree.Campaigns, c)
	}

	groups := make(map[string]*PlacementGroup)
	orphanGroups := make(map[string]bool)
	for _, e := range in.PlacementGroups {
		g := &PlacementGroup{Entity: e, Placements: []*Placement{}}

		campaignID := utils.ToString(e["campaignId"])
		if c, ok := campaigns[campaignID]; ok {
			groups[remote.ID(e)] = g
			c.PlacementGroups = append(c.PlacementGroups, g)
			continue
		}
		orphanGroups[remote.ID(e)] = true
		tree.orphan("placementGroup", e, "campaign", campaignID)
	}

	placements := make(map[string]*Placement)
	for _, e := range in.Placements {
		p := &Placement{Entity: e, Ads: []*Ad{}}

		groupID := utils.ToString(e["placementGroupId"])
		if g, ok := groups[groupID]; ok && groupID != "" {
			placements[remote.ID(e)] = p
			g.Placements = append(g.Placements, p)
			continue
		}
		if orphanGroups[groupID] && groupID != "" {
			tree.orphan("placement", e, "placementGroup", groupID)
			continue
		}
		campaignID := utils.ToString(e["campaignId"])
		if c, ok := campaigns[campaignID]; ok {
			placements[remote.ID(e)] = p
			c.Placements = append(c.Placements, p)
			continue
		}
		tree.orphan("placement", e, "campaign", campaignID)
	}

	for _, e := range in.Ads {
		a := &Ad{Entity: e, Creatives: []*CreativeAssignment{}}

		placed := false
		var lastPlacementID string
		for _, pa := range objects(e["placementAssignments"]) {
			lastPlacementID = utils.ToString(pa["placementId"])
			if p, ok := placements[lastPlacementID]; ok {
				p.Ads = append(p.Ads, a)
				placed = true
			}
		}
		if !placed {
			tree.orphan("ad", e, "placement", lastPlacementID)
		}

		var defaultLandingPageID string
		if c, ok := campaigns[utils.ToString(e["campaignId"])]; ok {
			defaultLandingPageID = utils.ToString(c.Entity["defaultLandingPageId"])
		}

		rotation, _ := e["creativeRotation"].(map[string]any)
		for _, assignment := range objects(rotation["creativeAssignments"]) {
			ca := &CreativeAssignment{
				Assignment: assignment,
				Creative:   creatives[utils.ToString(assignment["creativeId"])],
			}

			click, _ := assignment["clickThroughUrl"].(map[string]any)
			landingPageID := utils.ToString(click["landingPageId"])
			if utils.IsTruthy(click["defaultLandingPage"]) {
				landingPageID = defaultLandingPageID
			}
			ca.LandingPage = landingPages[landingPageID]

			a.Creatives = append(a.Creatives, ca)
		}
	}

	return tree
}

func (t *Tree) orphan(kind string, e remote.Entity, parentKind, parentID string) {
	t.Orphans = append(t.Orphans, Orphan{Kind: kind, ID: remote.ID(e), ParentKind: parentKind, ParentID: parentID})
}

func index(list []remote.Entity) map[string]remote.Entity {
	out := make(map[string]remote.Entity, len(list))
	for _, e := range list {
		out[remote.ID(e)] = e
	}
	return out
}

// objects returns the map elements of a decoded JSON array.
func objects(v any) []map[string]any {
	switch list := v.(type) {
	case []map[string]any:
		return list
	case []any:
		out := make([]map[string]any, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

package hierarchy

import (
	"encoding/json"

	"bulkdozer/core/remote"
)

// Campaign is the root of the tree.
type Campaign struct {
	Entity          remote.Entity
	PlacementGroups []*PlacementGroup
	// Placements are the placements without a resolvable group.
	Placements []*Placement
}

// PlacementGroup nests under its campaign.
type PlacementGroup struct {
	Entity     remote.Entity
	Placements []*Placement
}

// Placement nests under its group when one is set and found, otherwise
// under its campaign.
type Placement struct {
	Entity remote.Entity
	Ads    []*Ad
}

// Ad is listed under every placement it is assigned to.
type Ad struct {
	Entity    remote.Entity
	Creatives []*CreativeAssignment
}

// CreativeAssignment is one creative rotation entry of an ad with the
// creative and landing page it resolves to. Either may be nil.
type CreativeAssignment struct {
	Assignment  remote.Entity
	Creative    remote.Entity
	LandingPage remote.Entity
}

// Orphan is an entity left out of the tree because its parent is unknown.
type Orphan struct {
	Kind       string `json:"kind"`
	ID         string `json:"id"`
	ParentKind string `json:"parentKind"`
	ParentID   string `json:"parentId"`
}

// Tree is the result of Build.
type Tree struct {
	Campaigns []*Campaign
	Orphans   []Orphan
}

func (c *Campaign) MarshalJSON() ([]byte, error) {
	out := merge(c.Entity)
	out["placementGroups"] = c.PlacementGroups
	out["placements"] = c.Placements
	return json.Marshal(out)
}

func (g *PlacementGroup) MarshalJSON() ([]byte, error) {
	out := merge(g.Entity)
	out["placements"] = g.Placements
	return json.Marshal(out)
}

func (p *Placement) MarshalJSON() ([]byte, error) {
	out := merge(p.Entity)
	out["ads"] = p.Ads
	return json.Marshal(out)
}

func (a *Ad) MarshalJSON() ([]byte, error) {
	out := merge(a.Entity)
	out["creatives"] = a.Creatives
	return json.Marshal(out)
}

func (ca *CreativeAssignment) MarshalJSON() ([]byte, error) {
	out := merge(ca.Assignment)
	if ca.Creative != nil {
		out["creative"] = ca.Creative
	}
	if ca.LandingPage != nil {
		out["landingPage"] = ca.LandingPage
	}
	return json.Marshal(out)
}

func merge(e remote.Entity) map[string]any {
	out := make(map[string]any, len(e)+2)
	for k, v := range e {
		out[k] = v
	}
	return out
}

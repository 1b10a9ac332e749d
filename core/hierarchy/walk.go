package hierarchy

// ForEachAd visits every ad placement in reporting order: for each campaign,
// the placements of its groups first, then its own placements. group is nil
// for campaign level placements.
func (t *Tree) ForEachAd(fn func(c *Campaign, g *PlacementGroup, p *Placement, a *Ad)) {
	for _, c := range t.Campaigns {
		for _, g := range c.PlacementGroups {
			for _, p := range g.Placements {
				for _, a := range p.Ads {
					fn(c, g, p, a)
				}
			}
		}
		for _, p := range c.Placements {
			for _, a := range p.Ads {
				fn(c, nil, p, a)
			}
		}
	}
}

// ForEachAdCreativeAssignment visits every creative assignment in the same
// order as ForEachAd.
func (t *Tree) ForEachAdCreativeAssignment(fn func(c *Campaign, g *PlacementGroup, p *Placement, a *Ad, ca *CreativeAssignment)) {
	t.ForEachAd(func(c *Campaign, g *PlacementGroup, p *Placement, a *Ad) {
		for _, ca := range a.Creatives {
			fn(c, g, p, a, ca)
		}
	})
}

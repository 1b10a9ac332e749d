// Package cm holds the Campaign Manager entity strategies.
//
// Each strategy maps one workbook table onto one remote collection:
// campaigns, landing pages, event tags, creatives, placement groups,
// placements and ads. Pricing schedules and the three ad assignment tables
// are load-only; their rows are pushed as children of placements and ads.
package cm

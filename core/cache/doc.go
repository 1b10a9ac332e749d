// Package cache provides the entity caches used by the remote client.
//
// A private Memory cache serves one load operation. A shared cache serves every
// row of a push batch: either the in-process Shared cache (expiry plus bounded
// size) or Dynamo, a DynamoDB table with a "ttl" attribute that several
// bulkdozer processes can share. Keys embed the session generation, so entries
// never leak from one operation into the next.
package cache

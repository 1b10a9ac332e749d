// Package session provides the counter behind job generations. Each job
// takes the next value, which the remote client embeds in its cache keys.
package session

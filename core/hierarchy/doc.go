// Package hierarchy assembles flat campaign entity lists into a tree.
package hierarchy

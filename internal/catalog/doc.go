// Package catalog provides the static card and spread catalogs. Both are
// built once at startup and are read-only afterwards: reading sessions
// borrow card references from the card catalog and look position labels up
// in the spread catalog, but never mutate either.
package catalog

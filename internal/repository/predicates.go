package repository

// The listing predicate over collections, written once and composed by every
// list query in this package. Inlining per-endpoint variants of this
// condition is how access bugs happen, so it lives here and nowhere else.
//
// It expects the actor's user ID as the query's $1 argument and the
// collections table aliased as c.
//
// It defines what "my accessible collections" enumerates. Link-shareable
// collections are absent unless an explicit grant exists; visiting a link
// grants nothing persistent.
//
// The direct-access counterpart (a specific, already-known collection
// reference, where link-sharing does count) is not a SQL predicate: single
// rows are fetched by id or token and decided in services.AccessResolver.
const collectionListingPredicate = `c.active = TRUE AND (
	c.owner_id = $1
	OR EXISTS (SELECT 1 FROM shared_grants sg WHERE sg.collection_id = c.id AND sg.user_id = $1)
)`

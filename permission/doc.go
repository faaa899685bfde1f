// Package permission turns the flattened role/permission rows returned by the
// credential store into the shapes the engine hands out: a deduplicated list
// of permission codes, a deduplicated list of role names, and a navigation
// menu forest.
//
// The forest transform ([Build]) is generic and shared with other listing
// callers. Its orphan policy is deliberate: a node whose parent id is missing
// from the input becomes a root rather than being dropped. Callers paginate
// over the root list, so dropping orphans would silently change their counts.
package permission

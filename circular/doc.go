// Package circular provides small helpers for sizing growable arenas, used
// by record.Map when its descriptor arena needs to grow.
package circular

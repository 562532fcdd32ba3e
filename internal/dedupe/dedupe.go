// Package dedupe holds the shared singleflight groups that collapse
// concurrent first-time work onto a single goroutine per key.
package dedupe

import "golang.org/x/sync/singleflight"

// RealmGroup deduplicates lazy realm generation keyed by keys.Realm.
var RealmGroup singleflight.Group

// AvatarGroup deduplicates avatar download and resize keyed by keys.Avatar.
var AvatarGroup singleflight.Group

// Package storage persists view-state bookmarks and recordings under a
// data directory.
//
// Layout:
//
//	<data>/bookmarks/<name>.json
//	<data>/recordings/<id>/metadata.json
//	<data>/recordings/<id>/samples.csv
//
// A [Recorder] is an effect on the registry's snapshot memo, so it captures
// exactly one sample per batch of writes. [Replay] writes samples back
// through SetAll.
package storage

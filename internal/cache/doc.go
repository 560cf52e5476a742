// Package cache keeps small server responses on disk with a TTL so shell
// completion and repeated commands do not hit the capture server each time.
//
// Entries are JSON files under the configured cache directory
// (~/.capctl/cache by default), one file per key.
package cache

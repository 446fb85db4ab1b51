// Package settings persists panel state as a JSON file shared with other
// tools. The on-disk shape (camelCase keys, [w,h] or null output size) is a
// compatibility contract and must stay stable across releases.
package settings

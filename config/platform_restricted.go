//go:build js || wasip1

package config

// Browser and WASI sandboxes have no general file system access.
const fileLoadingSupported = false

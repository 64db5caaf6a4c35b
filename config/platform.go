//go:build !js && !wasip1

package config

const fileLoadingSupported = true

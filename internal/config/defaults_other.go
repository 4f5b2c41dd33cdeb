//go:build !windows
// +build !windows

package config

const defaultOutputPath = "out.txt"

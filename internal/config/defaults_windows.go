//go:build windows
// +build windows

package config

const defaultOutputPath = `D:\out.txt`

//go:build !lruipv_debug

package lruipv

const debugging = false

func assert(bool, string) {}

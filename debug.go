//go:build lruipv_debug

package lruipv

const debugging = true

func assert(cond bool, message string) {
	if !cond {
		panic(message)
	}
}

//go:build linux && amd64

package linker

import "github.com/ebitengine/purego"

// CallInt32 invokes the function at addr as a C function taking up to four
// int32 arguments and returning an int32, for the demo CLI's "call"
// subcommand (§8 scenario 1: int add(int,int), int multiply(int,int)).
// purego requires a concrete Go function type per call shape, so this
// dispatches on argument count rather than accepting a fully variadic
// signature.
func CallInt32(addr uintptr, args []int32) int32 {
	switch len(args) {
	case 0:
		var fn func() int32
		purego.RegisterFunc(&fn, addr)
		return fn()
	case 1:
		var fn func(int32) int32
		purego.RegisterFunc(&fn, addr)
		return fn(args[0])
	case 2:
		var fn func(int32, int32) int32
		purego.RegisterFunc(&fn, addr)
		return fn(args[0], args[1])
	case 3:
		var fn func(int32, int32, int32) int32
		purego.RegisterFunc(&fn, addr)
		return fn(args[0], args[1], args[2])
	default:
		var fn func(int32, int32, int32, int32) int32
		purego.RegisterFunc(&fn, addr)
		return fn(args[0], args[1], args[2], args[3])
	}
}

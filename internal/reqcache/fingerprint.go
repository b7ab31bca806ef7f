package reqcache

import (
	"fmt"
	"hash/fnv"
	"strconv"
)

// Fingerprint builds a deterministic cache key from an operation name
// and its normalized arguments. Equal calls always hash equal;
// argument boundaries are length-prefixed so ("ab","c") and ("a","bc")
// cannot collide.
func Fingerprint(op string, args ...string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(op))
	for _, arg := range args {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(strconv.Itoa(len(arg))))
		_, _ = h.Write([]byte{':'})
		_, _ = h.Write([]byte(arg))
	}
	return op + ":" + fmt.Sprintf("%016x", h.Sum64())
}

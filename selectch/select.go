// select.go
//
// Select is a one-shot, non-blocking, fair probe across a heterogeneous
// list of channel cases with an optional default branch. Go's value types
// can't express a list of Out[T] for varying T directly, so each Case
// closes over its own typed endpoint and handler; Select only ever sees
// the closure, which is what makes the list heterogeneous.
//
// Fairness comes from a uniform Fisher-Yates shuffle of the case order
// before probing, drawn from crypto/rand, so no case is favored by its
// position in the call.

package selectch

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"math/bits"

	"github.com/lukasjhan/pcap-stat/channel"
)

// ErrNoCases is returned by Select when called with zero cases — the
// construction failure the spec requires.
var ErrNoCases = errors.New("selectch: at least one case is required")

// Receiver is the non-blocking probe surface a Case needs; *channel.Out[T]
// satisfies it for any T.
type Receiver[T any] interface {
	TryReceive() (T, channel.RecvStatus)
}

// Case is one select branch: a bound endpoint plus the handler to invoke
// with the received value if that endpoint turns out to be ready.
type Case struct {
	try func() bool
}

// Recv builds a Case over out. handler runs with the received value when
// this case is chosen; a closed-and-drained endpoint counts as ready too,
// invoking handler with the zero value of T, matching the channel's
// closed-receive semantics.
func Recv[T any](out Receiver[T], handler func(T)) Case {
	return Case{
		try: func() bool {
			v, status := out.TryReceive()
			if status == channel.Empty {
				return false
			}
			handler(v)
			return true
		},
	}
}

// Select shuffles cases into random order, then tries each via a
// non-blocking probe until one succeeds, invoking its handler and
// stopping. If no case is ready and def is non-nil, def runs. If no case
// is ready and def is nil, Select returns (false, nil) without invoking
// anything — there is no blocking variant here. Returns ErrNoCases if
// cases is empty. A handler panic propagates to the caller unchanged.
func Select(cases []Case, def func()) (bool, error) {
	if len(cases) == 0 {
		return false, ErrNoCases
	}

	order := shuffledIndices(len(cases))
	for _, idx := range order {
		if cases[idx].try() {
			return true, nil
		}
	}

	if def != nil {
		def()
		return true, nil
	}
	return false, nil
}

// shuffledIndices returns a uniformly random permutation of [0, n) using
// Fisher-Yates with a Lemire-bounded draw from crypto/rand at each step.
func shuffledIndices(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := crandInt(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// crandInt returns a uniform random int in [0, n) using crypto/rand. For
// power-of-two n it masks; otherwise it uses a 64x64 multiply-high bounded
// draw (Lemire's method) to avoid modulo bias.
func crandInt(n int) int {
	var b [8]byte
	_, _ = rand.Read(b[:])
	v := binary.LittleEndian.Uint64(b[:])
	if n&(n-1) == 0 {
		return int(v & uint64(n-1))
	}
	hi, _ := bits.Mul64(v, uint64(n))
	return int(hi)
}

// File: csp/select.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Select engine. A call moves through Polling -> (Ready | Subscribing) ->
// Blocked -> Completed:
//
//   - Polling tries the operands in uniformly random order without
//     blocking, so no operand is structurally favored.
//   - Subscribing sorts operands by channel ID, locks each distinct channel
//     once in that order and registers one selector per operand, all
//     sharing a single Group. The global ID order keeps concurrent selects
//     over overlapping channel sets deadlock free.
//   - Blocked waits once on the group; the completer id names the winner,
//     every other selector is retracted under the locks again.

package csp

import (
	"math/rand/v2"
	"sort"

	"github.com/momentics/hioload-csp/internal/concurrency"
)

// Rand is the random source used to order polling. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type runtimeRand struct{}

// IntN draws from the runtime generator, which keeps per-thread state.
func (runtimeRand) IntN(n int) int { return rand.IntN(n) }

// Select blocks until one operand completes and returns its argument index.
// Nil operands and operands over a nil channel are ignored. Panics with
// ErrEmptySelect when no usable operand remains, and with ErrSendOnClosed
// when the chosen send finds its channel closed.
func Select(ops ...Op) int {
	return run(runtimeRand{}, true, ops)
}

// SelectWith is Select with an explicit random source.
func SelectWith(r Rand, ops ...Op) int {
	return run(r, true, ops)
}

// Poll completes one ready operand and returns its index, or -1 when none
// is ready. It never blocks.
func Poll(ops ...Op) int {
	return run(runtimeRand{}, false, ops)
}

// PollWith is Poll with an explicit random source.
func PollWith(r Rand, ops ...Op) int {
	return run(r, false, ops)
}

type selectCase struct {
	op    Op
	index int
}

func run(r Rand, block bool, ops []Op) int {
	cases := make([]selectCase, 0, len(ops))
	for i, op := range ops {
		if op == nil || !op.usable() {
			continue
		}
		op.reset()
		cases = append(cases, selectCase{op: op, index: i})
	}
	if len(cases) == 0 {
		if block {
			misuse(ErrEmptySelect, nil)
		}
		return -1
	}

	// Polling: draw candidates without replacement.
	order := make([]int, len(cases))
	for i := range order {
		order[i] = i
	}
	for n := len(order); n > 0; n-- {
		j := r.IntN(n)
		k := order[j]
		if cases[k].op.poll() {
			cases[k].op.observeSelect(false)
			return cases[k].index
		}
		order[j] = order[n-1]
	}
	if !block {
		return -1
	}

	// Subscribing.
	sort.SliceStable(cases, func(a, b int) bool {
		return cases[a].op.chanID() < cases[b].op.chanID()
	})
	lockAll(cases)
	g := concurrency.NewGroup()
	for k := range cases {
		if !cases[k].op.subscribe(g, k) {
			continue
		}
		if !g.Claim() {
			unlockAll(cases)
			internalFault("select group claimed while subscribing")
		}
		for j := 0; j < k; j++ {
			cases[j].op.unsubscribe()
		}
		unlockAll(cases)
		cases[k].op.commit(false)
		cases[k].op.observeSelect(false)
		return cases[k].index
	}
	unlockAll(cases)

	// Blocked.
	g.Wait()
	w := g.Completer()
	if w < 0 || w >= len(cases) {
		internalFault("select woken without a completer")
	}
	lockAll(cases)
	for k := range cases {
		if k != w {
			cases[k].op.unsubscribe()
		}
	}
	unlockAll(cases)
	cases[w].op.commit(true)
	cases[w].op.observeSelect(true)
	return cases[w].index
}

// lockAll locks every distinct channel in ascending ID order. cases must be
// sorted by channel ID.
func lockAll(cases []selectCase) {
	for i, c := range cases {
		if i > 0 && cases[i-1].op.chanID() == c.op.chanID() {
			continue
		}
		c.op.lock()
	}
}

func unlockAll(cases []selectCase) {
	for i := len(cases) - 1; i >= 0; i-- {
		if i > 0 && cases[i-1].op.chanID() == cases[i].op.chanID() {
			continue
		}
		cases[i].op.unlock()
	}
}

// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package concurrency holds the synchronization machinery behind csp
// channels: the one-shot Waiter threads park on, the Selector/Group pair
// that arbitrates who completes a pending operation, the intrusive waiter
// lists and the two interchangeable channel state backends (mutex + lists,
// and a packed CAS state word).
//
// A Selector is owned by the frame of the blocking call that created it.
// A backend only references it while it is queued; every completion path
// removes it from the list before claiming its Group, and the owner retracts
// whatever is still queued before returning.
package concurrency

// Package thread
// Author: momentics <momentics@gmail.com>
//
// OS-thread workers for channel programs: Spawn runs a function on a
// goroutine locked to its own OS thread, optionally pinned to a CPU; Group
// joins many; Pool is a fixed worker set fed through a csp channel.
package thread

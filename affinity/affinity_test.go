package affinity

import (
	"errors"
	"runtime"
	"testing"
)

func TestSetAffinityRejectsNegative(t *testing.T) {
	if err := SetAffinity(-1); !errors.Is(err, ErrInvalidCPU) {
		t.Fatalf("SetAffinity(-1) = %v, want ErrInvalidCPU", err)
	}
}

func TestPinToAllowedCPU(t *testing.T) {
	cpus, err := Allowed()
	if errors.Is(err, ErrNotSupported) {
		t.Skip("affinity not supported")
	}
	if err != nil {
		t.Fatalf("Allowed: %v", err)
	}
	if len(cpus) == 0 {
		t.Fatal("no allowed CPUs reported")
	}

	done := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		// Thread exits with the goroutine, taking the narrowed mask along.
		if err := SetAffinity(cpus[0]); err != nil {
			done <- err
			return
		}
		got, err := Allowed()
		if err == nil && (len(got) != 1 || got[0] != cpus[0]) {
			t.Errorf("Allowed after pin = %v, want [%d]", got, cpus[0])
		}
		done <- err
	}()
	if err := <-done; err != nil {
		t.Fatalf("pin: %v", err)
	}
}

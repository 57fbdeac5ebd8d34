package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func passthrough(_ context.Context, result string) (string, error) { return result, nil }

func ok(_ context.Context, _ string) (string, error) { return "", nil }

func TestRegisterDuplicateName(t *testing.T) {
	reg := New()
	if err := reg.RegisterValidator(ValidatorFunc("v1", 50, ok)); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := reg.RegisterValidator(ValidatorFunc("v1", 10, ok))
	var dup *DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("second register: got %v, want DuplicateNameError", err)
	}
	if dup.Name != "v1" {
		t.Errorf("error name: got %q, want v1", dup.Name)
	}
}

func TestUnregisterThenList(t *testing.T) {
	reg := New()
	for _, name := range []string{"a", "b", "c"} {
		if err := reg.RegisterValidator(ValidatorFunc(name, 50, ok)); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	if err := reg.UnregisterValidator("b"); err != nil {
		t.Fatalf("unregister: %v", err)
	}
	got := reg.ListValidators()
	want := []string{"a", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("list after unregister (-want +got):\n%s", diff)
	}
}

func TestUnregisterMissing(t *testing.T) {
	reg := New()
	err := reg.UnregisterPostProcessor("ghost")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want NotFoundError", err)
	}
}

func TestValidatorPriorityOrder(t *testing.T) {
	// The high-priority validator must run first regardless of registration order.
	for _, reversed := range []bool{false, true} {
		reg := New()
		names := []struct {
			name string
			prio int
		}{{"low", 50}, {"high", 100}}
		if reversed {
			names[0], names[1] = names[1], names[0]
		}
		for _, n := range names {
			if err := reg.RegisterValidator(ValidatorFunc(n.name, n.prio, ok)); err != nil {
				t.Fatalf("register: %v", err)
			}
		}
		vals := reg.Validators()
		if vals[0].Name() != "high" || vals[1].Name() != "low" {
			t.Errorf("reversed=%v: got order %s,%s; want high,low", reversed, vals[0].Name(), vals[1].Name())
		}
	}
}

func TestValidatorEqualPriorityKeepsRegistrationOrder(t *testing.T) {
	reg := New()
	for _, name := range []string{"first", "second", "third"} {
		if err := reg.RegisterValidator(ValidatorFunc(name, 50, ok)); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	vals := reg.Validators()
	got := []string{vals[0].Name(), vals[1].Name(), vals[2].Name()}
	want := []string{"first", "second", "third"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("equal-priority order (-want +got):\n%s", diff)
	}
}

func TestPostProcessorStageOrder(t *testing.T) {
	reg := New()
	// Register out of stage order on purpose.
	specs := []struct {
		name  string
		stage Stage
	}{
		{"late-1", StageLate},
		{"early-1", StageEarly},
		{"mid-1", StageMiddle},
		{"early-2", StageEarly},
	}
	for _, s := range specs {
		if err := reg.RegisterPostProcessor(PostProcessorFunc(s.name, s.stage, passthrough)); err != nil {
			t.Fatalf("register %s: %v", s.name, err)
		}
	}
	procs := reg.PostProcessors()
	got := make([]string, len(procs))
	for i, p := range procs {
		got[i] = p.Name()
	}
	want := []string{"early-1", "early-2", "mid-1", "late-1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stage order (-want +got):\n%s", diff)
	}
}

func TestClearPostProcessors(t *testing.T) {
	reg := New()
	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("p%d", i)
		if err := reg.RegisterPostProcessor(PostProcessorFunc(name, StageMiddle, passthrough)); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	reg.ClearPostProcessors()
	if got := reg.ListPostProcessors(); len(got) != 0 {
		t.Errorf("list after clear: got %v, want empty", got)
	}
}

func TestConcurrentRegister(t *testing.T) {
	reg := New()
	const n = 64
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = reg.RegisterValidator(ValidatorFunc(fmt.Sprintf("v%02d", i), 50, ok))
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
	}
	if got := len(reg.ListValidators()); got != n {
		t.Errorf("validators after concurrent register: got %d, want %d", got, n)
	}
}

func TestConcurrentReadDuringWrites(t *testing.T) {
	reg := New()
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			name := fmt.Sprintf("w%d", i)
			if err := reg.RegisterPostProcessor(PostProcessorFunc(name, StageMiddle, passthrough)); err != nil {
				t.Errorf("register: %v", err)
				return
			}
			if err := reg.UnregisterPostProcessor(name); err != nil {
				t.Errorf("unregister: %v", err)
				return
			}
		}
	}()
	for i := 0; i < 1000; i++ {
		// Snapshots must always be internally consistent: no nil entries,
		// no duplicates.
		seen := map[string]bool{}
		for _, p := range reg.PostProcessors() {
			if p == nil {
				t.Fatal("snapshot contains nil processor")
			}
			if seen[p.Name()] {
				t.Fatalf("snapshot contains duplicate %q", p.Name())
			}
			seen[p.Name()] = true
		}
	}
	close(stop)
	wg.Wait()
}

func TestFindOCRBackendByLanguage(t *testing.T) {
	reg := New()
	noop := func(_ context.Context, _, _ string) (string, error) { return "", nil }
	if err := reg.RegisterOCRBackend(OCRBackendFunc("deu-only", []string{"deu"}, noop)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterOCRBackend(OCRBackendFunc("multi", []string{"eng", "fra"}, noop)); err != nil {
		t.Fatalf("register: %v", err)
	}

	b, found := reg.FindOCRBackend("fra")
	if !found || b.Name() != "multi" {
		t.Errorf("fra: got %v found=%v, want multi", b, found)
	}
	if _, found := reg.FindOCRBackend("jpn"); found {
		t.Error("jpn: expected no backend")
	}
	// Empty language matches the earliest-registered backend.
	b, found = reg.FindOCRBackend("")
	if !found || b.Name() != "deu-only" {
		t.Errorf("any: got %v found=%v, want deu-only", b, found)
	}
}

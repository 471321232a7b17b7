//go:build lruipv_debug

package lruipv_test

import "testing"

func TestDebugAssertsFullStack(t *testing.T) {
	t.Parallel()
	policy := newPolicy(t)
	entry, err := policy.Instantiate(0)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recovered := recover(); recovered == nil {
			t.Error("reset on a partially populated set did not panic")
		}
	}()
	_ = policy.Reset(entry)
}

func TestDebugAllowsFullStack(t *testing.T) {
	t.Parallel()
	policy := newPolicy(t)
	entries := fillSet(t, policy, 0)
	for _, entry := range entries {
		if err := policy.Reset(entry); err != nil {
			t.Fatal(err)
		}
	}
	checkWindow(t, policy, 0, "after resets")
}

package main

import "testing"

func TestParseArgsIntAndFloat(t *testing.T) {
	args, err := parseArgs([]string{"10", "-3", "2.5"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	want := []any{int32(10), int32(-3), float32(2.5)}
	if len(args) != len(want) {
		t.Fatalf("parseArgs returned %d args, want %d", len(args), len(want))
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg %d = %v (%T), want %v (%T)", i, args[i], args[i], want[i], want[i])
		}
	}
}

func TestParseArgsRejectsGarbage(t *testing.T) {
	if _, err := parseArgs([]string{"not-a-number"}); err == nil {
		t.Error("parseArgs of a non-numeric argument should have failed")
	}
}

package main

import (
	"os"
	"testing"
)

func TestMainHelp(t *testing.T) {
	saved := os.Args
	defer func() { os.Args = saved }()

	os.Args = []string{"mande", "--help"}
	if code := Main(); code != 0 {
		t.Errorf("Main() = %d, want 0", code)
	}

	os.Args = []string{"mande", "get"}
	if code := Main(); code != 1 {
		t.Errorf("Main() without target = %d, want 1", code)
	}
}

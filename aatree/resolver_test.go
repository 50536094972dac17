package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleResolver(tst *testing.T) {
	out := &bytes.Buffer{}
	r := newConsoleResolver(strings.NewReader(" HUMAN \nMOUSE"), out)

	name, err := r.Ingroup([]string{"FLY", "LOCUST"})
	if err != nil || name != "HUMAN" {
		tst.Error("Expected HUMAN, got", name, err)
	}
	if !strings.Contains(out.String(), "Enter an ingroup taxon: ") {
		tst.Error("No prompt:", out.String())
	}
	if !strings.Contains(out.String(), "FLY, LOCUST") {
		tst.Error("No outgroup in the prompt:", out.String())
	}

	name, err = r.Ingroup(nil)
	if err != nil || name != "MOUSE" {
		tst.Error("Expected MOUSE, got", name, err)
	}

	if _, err := r.Ingroup(nil); err == nil {
		tst.Error("Expected an error at the end of input")
	}
}

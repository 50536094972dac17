package tree

import (
	"testing"
)

func TestBipartitions(tst *testing.T) {
	t := parse(tst, "((a,b),(c,(d,e)));")
	splits := t.Bipartitions()
	if len(splits) != 2 {
		tst.Error("Expected 2 splits, got", splits)
	}
	if !splits["c,d,e"] || !splits["d,e"] {
		tst.Error("Wrong splits", splits)
	}
}

func TestRobinsonFoulds(tst *testing.T) {
	rooted := parse(tst, "((a,b),(c,(d,e)));")
	unrooted := parse(tst, "(a,b,(c,(d,e)));")
	other := parse(tst, "((a,c),(b,(d,e)));")

	if d, err := RobinsonFoulds(rooted, unrooted); err != nil || d != 0 {
		tst.Error("Expected distance 0, got", d, err)
	}
	if d, err := RobinsonFoulds(rooted, other); err != nil || d != 2 {
		tst.Error("Expected distance 2, got", d, err)
	}
	if _, err := RobinsonFoulds(rooted, parse(tst, "((a,b),(c,(d,f)));")); err == nil {
		tst.Error("Expected error for different leaf sets")
	}
}

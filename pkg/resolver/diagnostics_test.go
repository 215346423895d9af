package resolver

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/devicelab-dev/hypium-runner/pkg/rstree"
)

func TestNearestNames(t *testing.T) {
	dump := `pid[10]
| Text[1] name[Login]
| Text[2] name[LoginButton]
| Text[3] name[Settings]
pid[20]
| Text[4] name[Login]
| Text[5] name[Logout]
`
	forest := rstree.Parse(dump)

	got := NearestNames(forest, "Login", 3)
	// Names are deduplicated across processes and ranked by tier score:
	// Login 100, LoginButton 85. Logout lands below the similarity
	// floor and is dropped.
	want := []string{"Login", "LoginButton"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestNearestNames_Limit(t *testing.T) {
	dump := `pid[10]
| Text[1] name[Login]
| Text[2] name[LoginButton]
`
	forest := rstree.Parse(dump)

	got := NearestNames(forest, "Login", 1)
	if len(got) != 1 || got[0] != "Login" {
		t.Errorf("got %v, want [Login]", got)
	}
}

func TestNearestNames_NoScore(t *testing.T) {
	dump := `pid[10]
| Text[1] name[Zebra]
`
	forest := rstree.Parse(dump)

	got := NearestNames(forest, "Login", 3)
	if len(got) != 0 {
		t.Errorf("expected no suggestions, got %v", got)
	}
}

package extract

import (
	"reflect"
	"testing"
)

func TestReviewersMentionedInText(t *testing.T) {
	roster := []string{"alice", "bob", "carol", "dave"}
	text := "Carol owns this area; Dave reviewed the last change here."
	got := Reviewers(text, roster)
	want := []string{"carol", "dave"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Reviewers = %v, want %v", got, want)
	}
}

func TestReviewersCapAtThree(t *testing.T) {
	roster := []string{"alice", "bob", "carol", "dave"}
	text := "alice, bob, carol and dave all know this code"
	if got := Reviewers(text, roster); len(got) != 3 {
		t.Errorf("len = %d, want 3 (%v)", len(got), got)
	}
}

func TestReviewersFallbackFirstTwo(t *testing.T) {
	roster := []string{"alice", "bob", "carol"}
	got := Reviewers("nobody specific mentioned", roster)
	want := []string{"alice", "bob"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Reviewers = %v, want %v", got, want)
	}
}

func TestReviewersEmptyRoster(t *testing.T) {
	if got := Reviewers("alice should review", nil); got != nil {
		t.Errorf("Reviewers = %v, want nil", got)
	}
}

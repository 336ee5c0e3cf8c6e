package domain

import (
	"errors"
	"testing"
)

func TestGrievanceStatus_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status GrievanceStatus
		want   bool
	}{
		{GrievanceStatusPending, true},
		{GrievanceStatusForwardedToHR, true},
		{GrievanceStatusResolved, true},
		{GrievanceStatusRejected, true},
		{GrievanceStatus("closed"), false},
		{GrievanceStatus("Pending"), false},
		{GrievanceStatus(""), false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("GrievanceStatus(%q).IsValid() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestTransitionTo_FlatGraphBetweenOpenStates(t *testing.T) {
	t.Parallel()

	g := &Grievance{Status: GrievanceStatusPending}
	changed, err := g.TransitionTo(GrievanceStatusForwardedToHR)
	if err != nil || !changed {
		t.Fatalf("pending -> forwarded-to-hr: changed=%v err=%v", changed, err)
	}
	changed, err = g.TransitionTo(GrievanceStatusPending)
	if err != nil || !changed {
		t.Fatalf("forwarded-to-hr -> pending: changed=%v err=%v", changed, err)
	}
	changed, err = g.TransitionTo(GrievanceStatusResolved)
	if err != nil || !changed {
		t.Fatalf("pending -> resolved: changed=%v err=%v", changed, err)
	}
}

func TestTransitionTo_SameStatusIsNoop(t *testing.T) {
	t.Parallel()

	g := &Grievance{Status: GrievanceStatusPending, Department: "Roads", Replies: []Reply{{ID: "r-1"}}}
	changed, err := g.TransitionTo(GrievanceStatusPending)
	if err != nil || changed {
		t.Fatalf("expected no-op, got changed=%v err=%v", changed, err)
	}
	if len(g.Replies) != 1 || g.Department != "Roads" {
		t.Fatal("no-op transition mutated the grievance")
	}
}

func TestTransitionTo_TerminalIsSticky(t *testing.T) {
	t.Parallel()

	for _, terminal := range TerminalStatuses() {
		g := &Grievance{Status: terminal}
		for _, target := range []GrievanceStatus{GrievanceStatusPending, GrievanceStatusForwardedToHR, GrievanceStatusResolved, GrievanceStatusRejected} {
			if _, err := g.TransitionTo(target); !errors.Is(err, ErrGrievanceClosed) {
				t.Errorf("%s -> %s: err = %v, want ErrGrievanceClosed", terminal, target, err)
			}
		}
		if g.Status != terminal {
			t.Errorf("status changed from %s to %s", terminal, g.Status)
		}
	}
}

func TestTransitionTo_InvalidStatus(t *testing.T) {
	t.Parallel()

	g := &Grievance{Status: GrievanceStatusPending}
	if _, err := g.TransitionTo("archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestAppendReply_PreservesOrderUntilClosed(t *testing.T) {
	t.Parallel()

	g := &Grievance{Status: GrievanceStatusPending}
	for _, id := range []string{"a", "b", "c"} {
		if err := g.AppendReply(Reply{ID: id}); err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}
	if g.Replies[0].ID != "a" || g.Replies[2].ID != "c" {
		t.Fatalf("unexpected order: %+v", g.Replies)
	}

	g.Status = GrievanceStatusRejected
	if err := g.AppendReply(Reply{ID: "d"}); !errors.Is(err, ErrGrievanceClosed) {
		t.Fatalf("err = %v, want ErrGrievanceClosed", err)
	}
	if len(g.Replies) != 3 {
		t.Fatalf("closed grievance accepted a reply")
	}
}

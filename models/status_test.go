package models

import (
	"testing"
	"time"
)

func TestReservationStatusTransitions(t *testing.T) {
	allowed := map[ReservationStatus][]ReservationStatus{
		ReservationPending:    {ReservationConfirmed, ReservationCancelled},
		ReservationConfirmed:  {ReservationCheckedIn, ReservationCancelled},
		ReservationCheckedIn:  {ReservationCheckedOut},
		ReservationCheckedOut: {},
		ReservationCancelled:  {},
	}
	all := []ReservationStatus{ReservationPending, ReservationConfirmed, ReservationCheckedIn, ReservationCheckedOut, ReservationCancelled}

	for from, targets := range allowed {
		ok := map[ReservationStatus]bool{}
		for _, to := range targets {
			ok[to] = true
		}
		for _, to := range all {
			if got := from.CanTransitionTo(to); got != ok[to] {
				t.Errorf("%s -> %s: expected %v, got %v", from, to, ok[to], got)
			}
		}
	}
}

func TestReservationStatusActive(t *testing.T) {
	if !ReservationPending.Active() || !ReservationConfirmed.Active() || !ReservationCheckedIn.Active() {
		t.Fatalf("expected pending, confirmed and checked-in to be active")
	}
	if ReservationCancelled.Active() || ReservationCheckedOut.Active() {
		t.Fatalf("expected cancelled and checked-out to be inactive")
	}
}

func TestItemStatusOnlyMovesForward(t *testing.T) {
	order := []ItemStatus{ItemPending, ItemPreparing, ItemReady, ItemDelivered}
	for i := 0; i < len(order)-1; i++ {
		next, ok := order[i].Next()
		if !ok || next != order[i+1] {
			t.Fatalf("expected %s -> %s, got %s (ok=%v)", order[i], order[i+1], next, ok)
		}
	}
	if _, ok := ItemDelivered.Next(); ok {
		t.Fatalf("expected Delivered to be terminal")
	}
	if !ItemPending.Cancellable() || !ItemPreparing.Cancellable() {
		t.Fatalf("expected Pending and Preparing to be cancellable")
	}
	if ItemReady.Cancellable() || ItemDelivered.Cancellable() {
		t.Fatalf("expected Ready and Delivered not to be cancellable")
	}
}

func TestReservationOverlapsWithBuffer(t *testing.T) {
	base := time.Date(2025, 3, 1, 14, 0, 0, 0, time.Local)
	r := Reservation{CheckIn: base, CheckOut: base.Add(48 * time.Hour)}

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"inside", base.Add(2 * time.Hour), base.Add(5 * time.Hour), true},
		{"starts during buffer", r.CheckOut.Add(30 * time.Minute), r.CheckOut.Add(24 * time.Hour), true},
		{"starts when buffer ends", r.CheckOut.Add(time.Hour), r.CheckOut.Add(24 * time.Hour), false},
		{"ends at check-in", base.Add(-24 * time.Hour), base, false},
		{"ends just after check-in", base.Add(-24 * time.Hour), base.Add(time.Minute), true},
	}
	for _, tc := range cases {
		if got := r.Overlaps(tc.start, tc.end, time.Hour); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

package fleetconsole

import (
	"context"
	"testing"

	"github.com/pkg/errors"
)

func TestRefreshPopulatesBothResultLists(t *testing.T) {
	stub := &stubRegistry{
		devices: testFleet(),
		refreshReport: &RefreshReport{
			Updated: []string{"10.0.0.1"},
			Errors:  []RefreshError{{IP: "10.0.0.2", Error: "timeout"}},
		},
	}
	s := newTestSession(t, stub)
	listCalls := stub.listCalls

	summary, err := s.RefreshDevices(context.Background(), false)
	if err != nil {
		t.Fatalf("RefreshDevices returned error: %v", err)
	}
	if summary.Refreshed != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	statuses := s.RefreshStatuses()
	if statuses["10.0.0.1"] != StatusRefreshed {
		t.Fatalf("unexpected status %q", statuses["10.0.0.1"])
	}
	if statuses["10.0.0.2"] != "Error: timeout" {
		t.Fatalf("unexpected status %q", statuses["10.0.0.2"])
	}
	if s.StatusLine() != "Refreshed 1 devices (1 failed)" {
		t.Fatalf("unexpected status line %q", s.StatusLine())
	}
	// Refetch happens whether or not per-device probes failed.
	if stub.listCalls != listCalls+1 {
		t.Fatal("registry must be refetched after the batch")
	}

	// One aggregated request, empty ip list meaning "all".
	if len(stub.refreshIPs) != 1 || len(stub.refreshIPs[0]) != 0 {
		t.Fatalf("unexpected refresh requests %v", stub.refreshIPs)
	}
}

func TestRefreshSelectedSendsSelectionIPs(t *testing.T) {
	stub := &stubRegistry{devices: testFleet()}
	s := newTestSession(t, stub)
	s.Toggle("10.0.0.4")
	s.Toggle("10.0.0.2")

	if _, err := s.RefreshDevices(context.Background(), true); err != nil {
		t.Fatalf("RefreshDevices returned error: %v", err)
	}
	if len(stub.refreshIPs) != 1 {
		t.Fatalf("expected one request, got %d", len(stub.refreshIPs))
	}
	got := stub.refreshIPs[0]
	if len(got) != 2 || got[0] != "10.0.0.2" || got[1] != "10.0.0.4" {
		t.Fatalf("unexpected ip list %v", got)
	}
}

func TestRefreshNamedSendsExactIPList(t *testing.T) {
	stub := &stubRegistry{devices: testFleet()}
	s := newTestSession(t, stub)

	// Duplicates collapse to one probe; order is the caller's.
	if _, err := s.RefreshNamed(context.Background(), []string{"10.0.0.3", "10.0.0.1", "10.0.0.3"}); err != nil {
		t.Fatalf("RefreshNamed returned error: %v", err)
	}
	if len(stub.refreshIPs) != 1 {
		t.Fatalf("expected one request, got %d", len(stub.refreshIPs))
	}
	got := stub.refreshIPs[0]
	if len(got) != 2 || got[0] != "10.0.0.3" || got[1] != "10.0.0.1" {
		t.Fatalf("unexpected ip list %v", got)
	}
}

func TestRefreshNamedRejectsUnknownIP(t *testing.T) {
	stub := &stubRegistry{devices: testFleet()}
	s := newTestSession(t, stub)

	// An unknown ip must fail before the request is built: a silently
	// dropped ip would shrink the list, and an empty list on the wire means
	// the whole fleet.
	if _, err := s.RefreshNamed(context.Background(), []string{"10.0.0.1", "10.0.0.99"}); err == nil {
		t.Fatal("expected error for unregistered ip")
	}
	if len(stub.refreshIPs) != 0 {
		t.Fatalf("no request may be sent, got %v", stub.refreshIPs)
	}

	// Same guard for a list that resolves to nothing at all.
	if _, err := s.RefreshNamed(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty ip list")
	}
	if len(stub.refreshIPs) != 0 {
		t.Fatalf("no request may be sent, got %v", stub.refreshIPs)
	}
}

func TestRefreshSummaryOmitsFailuresWhenNone(t *testing.T) {
	summary := RefreshSummary{Refreshed: 3}
	if summary.String() != "Refreshed 3 devices" {
		t.Fatalf("unexpected summary %q", summary.String())
	}
}

func TestRefreshTransportErrorKeepsTrackerEmpty(t *testing.T) {
	stub := &stubRegistry{devices: testFleet(), refreshErr: errors.New("registry down")}
	s := newTestSession(t, stub)
	s.setRefreshStatus("10.0.0.1", "leftover")
	listCalls := stub.listCalls

	if _, err := s.RefreshDevices(context.Background(), false); err == nil {
		t.Fatal("expected transport error")
	}
	// The tracker was reset for the new batch and nothing arrived.
	if n := len(s.RefreshStatuses()); n != 0 {
		t.Fatalf("expected empty tracker, got %d entries", n)
	}
	if s.StatusLine() != "Error refreshing devices: registry down" {
		t.Fatalf("unexpected status line %q", s.StatusLine())
	}
	if stub.listCalls != listCalls {
		t.Fatal("transport failure must not refetch the registry")
	}
}

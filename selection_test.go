package fleetconsole

import "testing"

func TestToggleIsItsOwnInverse(t *testing.T) {
	s := newTestSession(t, &stubRegistry{devices: testFleet()})

	s.Toggle("10.0.0.1")
	if !s.IsSelected("10.0.0.1") {
		t.Fatal("toggle should select")
	}
	s.Toggle("10.0.0.1")
	if s.IsSelected("10.0.0.1") {
		t.Fatal("second toggle should deselect")
	}
	if s.SelectedCount() != 0 {
		t.Fatalf("expected empty selection, got %d", s.SelectedCount())
	}
}

func TestSelectAllOnlyAddsVisible(t *testing.T) {
	s := newTestSession(t, &stubRegistry{devices: testFleet()})

	// Pre-select a device that is about to be filtered out of view.
	s.Toggle("10.0.0.4")

	visible := Filter{Architecture: "arm"}.Visible(s.Devices())
	s.SelectAll(visible)

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.4"} {
		if !s.IsSelected(ip) {
			t.Fatalf("%s should be selected", ip)
		}
	}
	if s.IsSelected("10.0.0.3") {
		t.Fatal("select-all must not touch devices outside the visible set")
	}
}

func TestDeselectAllClearsHiddenSelections(t *testing.T) {
	s := newTestSession(t, &stubRegistry{devices: testFleet()})

	s.Toggle("10.0.0.4")
	visible := Filter{Architecture: "arm"}.Visible(s.Devices())
	s.SelectAll(visible)

	s.DeselectAll()
	if s.SelectedCount() != 0 {
		t.Fatalf("deselect-all must clear everything, %d left", s.SelectedCount())
	}
}

func TestDeselectVisibleKeepsHiddenSelections(t *testing.T) {
	s := newTestSession(t, &stubRegistry{devices: testFleet()})

	s.Toggle("10.0.0.4")
	visible := Filter{Architecture: "arm"}.Visible(s.Devices())
	s.SelectAll(visible)

	s.DeselectVisible(visible)
	if s.IsSelected("10.0.0.1") || s.IsSelected("10.0.0.2") {
		t.Fatal("visible devices should be deselected")
	}
	if !s.IsSelected("10.0.0.4") {
		t.Fatal("hidden selection must survive deselecting the visible set")
	}
}

func TestStaleSelectionSurvivesRegistryChanges(t *testing.T) {
	stub := &stubRegistry{devices: testFleet()}
	s := newTestSession(t, stub)

	s.Toggle("10.0.0.3")
	stub.devices = stub.devices[:2] // device 3 vanished from the registry
	if err := s.FetchDevices(t.Context()); err != nil {
		t.Fatalf("FetchDevices returned error: %v", err)
	}

	// The stale ip is never pruned; it just has no row, so it is excluded
	// from the batch input but still counts as selected.
	if !s.IsSelected("10.0.0.3") {
		t.Fatal("stale ip should stay selected until explicitly cleared")
	}
	if len(s.SelectedDevices()) != 0 {
		t.Fatalf("stale ip must not produce a batch device, got %v", s.SelectedDevices())
	}
	s.DeselectAll()
	if s.IsSelected("10.0.0.3") {
		t.Fatal("deselect-all should clear stale ips too")
	}
}

func TestSelectedDevicesFollowRegistryOrder(t *testing.T) {
	s := newTestSession(t, &stubRegistry{devices: testFleet()})

	// Toggle in reverse order; the batch sequence still follows the fleet.
	s.Toggle("10.0.0.4")
	s.Toggle("10.0.0.1")

	got := s.SelectedDevices()
	if len(got) != 2 || got[0].IP != "10.0.0.1" || got[1].IP != "10.0.0.4" {
		t.Fatalf("expected registry order, got %v", got)
	}
}

func TestTriStateDerivations(t *testing.T) {
	s := newTestSession(t, &stubRegistry{devices: testFleet()})
	visible := s.Devices()

	if s.AllVisibleSelected(visible) || s.PartiallySelected(visible) {
		t.Fatal("empty selection should be neither all nor partial")
	}

	s.Toggle("10.0.0.1")
	if s.AllVisibleSelected(visible) {
		t.Fatal("one of four is not all")
	}
	if !s.PartiallySelected(visible) {
		t.Fatal("one of four is partial")
	}

	s.SelectAll(visible)
	if !s.AllVisibleSelected(visible) {
		t.Fatal("all visible selected after select-all")
	}
	if s.PartiallySelected(visible) {
		t.Fatal("full selection is not partial")
	}

	if s.AllVisibleSelected(nil) {
		t.Fatal("an empty visible set can never be fully selected")
	}
}

package fleetconsole

// Selection set operations. Membership is a set of ips, independent of
// whatever filter is active: a device can be selected while filtered out of
// view, and a stale ip that no longer exists in the registry stays in the
// set until explicitly cleared.

// Toggle flips the selection membership of one ip.
func (s *Session) Toggle(ip string) {
	s.mu.Lock()
	if _, ok := s.selected[ip]; ok {
		delete(s.selected, ip)
	} else {
		s.selected[ip] = struct{}{}
	}
	s.mu.Unlock()
	s.notify()
}

// IsSelected reports membership of one ip.
func (s *Session) IsSelected(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selected[ip]
	return ok
}

// SelectAll adds every ip of the visible set to the selection. Ips outside
// the visible set are untouched.
func (s *Session) SelectAll(visible []Device) {
	s.mu.Lock()
	for _, d := range visible {
		s.selected[d.IP] = struct{}{}
	}
	s.mu.Unlock()
	s.notify()
}

// DeselectVisible removes only the visible set from the selection. This is
// the uncheck half of the table-header control; ips outside the visible set
// stay selected.
func (s *Session) DeselectVisible(visible []Device) {
	s.mu.Lock()
	for _, d := range visible {
		delete(s.selected, d.IP)
	}
	s.mu.Unlock()
	s.notify()
}

// DeselectAll clears the entire selection unconditionally, including ips not
// currently visible.
func (s *Session) DeselectAll() {
	s.mu.Lock()
	s.selected = make(map[string]struct{})
	s.mu.Unlock()
	s.notify()
}

// SelectedCount returns the size of the selection set.
func (s *Session) SelectedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selected)
}

// SelectedIPs returns the selected ips in registry order. Selected ips no
// longer present in the registry are not included here (they have no row to
// act on) but remain in the set.
func (s *Session) SelectedIPs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.selected))
	for _, d := range s.devices {
		if _, ok := s.selected[d.IP]; ok {
			out = append(out, d.IP)
		}
	}
	return out
}

// SelectedDevices returns the selected device records in registry order,
// the input sequence for a bulk update batch.
func (s *Session) SelectedDevices() []Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Device, 0, len(s.selected))
	for _, d := range s.devices {
		if _, ok := s.selected[d.IP]; ok {
			out = append(out, d)
		}
	}
	return out
}

// AllVisibleSelected is true iff the visible set is non-empty and every
// member is selected. Drives the checked state of the header control.
func (s *Session) AllVisibleSelected(visible []Device) bool {
	if len(visible) == 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range visible {
		if _, ok := s.selected[d.IP]; !ok {
			return false
		}
	}
	return true
}

// PartiallySelected is true iff at least one but not all visible members are
// selected. Drives the indeterminate state of the header control.
func (s *Session) PartiallySelected(visible []Device) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	some, all := false, true
	for _, d := range visible {
		if _, ok := s.selected[d.IP]; ok {
			some = true
		} else {
			all = false
		}
	}
	return some && !all
}

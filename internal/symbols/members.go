package symbols

// Members is an ordered name -> Signifier table. The zero value is ready to use.
type Members struct {
	names  []string
	byName map[string]*Signifier
}

// Get returns the member called name, or nil.
func (m *Members) Get(name string) *Signifier {
	if m == nil || m.byName == nil {
		return nil
	}
	return m.byName[name]
}

// Add inserts sig, replacing a member with the same name in place.
func (m *Members) Add(sig *Signifier) {
	if m.byName == nil {
		m.byName = make(map[string]*Signifier)
	}
	if _, ok := m.byName[sig.Name]; !ok {
		m.names = append(m.names, sig.Name)
	}
	m.byName[sig.Name] = sig
}

// Remove deletes the member called name and reports whether it existed.
func (m *Members) Remove(name string) bool {
	if m == nil || m.byName == nil {
		return false
	}
	if _, ok := m.byName[name]; !ok {
		return false
	}
	delete(m.byName, name)
	for i, n := range m.names {
		if n == name {
			m.names = append(m.names[:i], m.names[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the member count.
func (m *Members) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// All returns the members in insertion order.
func (m *Members) All() []*Signifier {
	if m == nil {
		return nil
	}
	out := make([]*Signifier, 0, len(m.names))
	for _, n := range m.names {
		out = append(out, m.byName[n])
	}
	return out
}

package netxml

import (
	"context"
	"fmt"
)

// mockTool is a stateful in-memory Tool for lifecycle tests. Default
// behavior mimics the management tool's bookkeeping; individual
// methods can be overridden through the func fields. Every
// state-changing call is appended to commands for exact-sequence
// assertions.
type mockTool struct {
	// Overridable behavior
	netDefineFunc    func(xmlDesc string) error
	netUndefineFunc  func(name string) error
	netCreateFunc    func(xmlDesc string) error
	netStartFunc     func(name string) error
	netDestroyFunc   func(name string) error
	netAutostartFunc func(name string, enable bool) error
	netStateDictFunc func() (map[string]NetState, error)

	// State
	states map[string]NetState
	xmls   map[string]string

	// Call tracking: one entry per issued command, e.g. "define net0".
	commands []string
}

func newMockTool() *mockTool {
	return &mockTool{
		states: make(map[string]NetState),
		xmls:   make(map[string]string),
	}
}

// nameFromXML pulls the <name> out of a network document.
func nameFromXML(xmlDesc string) (string, error) {
	n := NewNetwork("placeholder", nil)
	if err := n.SetXML(xmlDesc); err != nil {
		return "", err
	}
	return n.Name()
}

func (m *mockTool) NetDefine(_ context.Context, xmlDesc string) error {
	if m.netDefineFunc != nil {
		return m.netDefineFunc(xmlDesc)
	}
	name, err := nameFromXML(xmlDesc)
	if err != nil {
		return err
	}
	m.commands = append(m.commands, "define "+name)
	st := m.states[name]
	st.Persistent = true
	m.states[name] = st
	m.xmls[name] = xmlDesc
	return nil
}

func (m *mockTool) NetUndefine(_ context.Context, name string) error {
	if m.netUndefineFunc != nil {
		return m.netUndefineFunc(name)
	}
	m.commands = append(m.commands, "undefine "+name)
	st, ok := m.states[name]
	if !ok {
		return fmt.Errorf("network %s not found", name)
	}
	if st.Active {
		// Undefining a running network leaves it transient.
		st.Persistent = false
		st.Autostart = false
		m.states[name] = st
		return nil
	}
	delete(m.states, name)
	return nil
}

func (m *mockTool) NetCreate(_ context.Context, xmlDesc string) error {
	if m.netCreateFunc != nil {
		return m.netCreateFunc(xmlDesc)
	}
	name, err := nameFromXML(xmlDesc)
	if err != nil {
		return err
	}
	m.commands = append(m.commands, "create "+name)
	m.states[name] = NetState{Active: true}
	m.xmls[name] = xmlDesc
	return nil
}

func (m *mockTool) NetStart(_ context.Context, name string) error {
	if m.netStartFunc != nil {
		return m.netStartFunc(name)
	}
	m.commands = append(m.commands, "start "+name)
	st, ok := m.states[name]
	if !ok {
		return fmt.Errorf("network %s not found", name)
	}
	st.Active = true
	m.states[name] = st
	return nil
}

func (m *mockTool) NetDestroy(_ context.Context, name string) error {
	if m.netDestroyFunc != nil {
		return m.netDestroyFunc(name)
	}
	m.commands = append(m.commands, "destroy "+name)
	st, ok := m.states[name]
	if !ok {
		return fmt.Errorf("network %s not found", name)
	}
	if !st.Persistent {
		delete(m.states, name)
		return nil
	}
	st.Active = false
	m.states[name] = st
	return nil
}

func (m *mockTool) NetAutostart(_ context.Context, name string, enable bool) error {
	if m.netAutostartFunc != nil {
		return m.netAutostartFunc(name, enable)
	}
	if enable {
		m.commands = append(m.commands, "autostart "+name)
	} else {
		m.commands = append(m.commands, "autostart --disable "+name)
	}
	st, ok := m.states[name]
	if !ok {
		return fmt.Errorf("network %s not found", name)
	}
	st.Autostart = enable
	m.states[name] = st
	return nil
}

func (m *mockTool) NetDumpXML(_ context.Context, name string) (string, error) {
	xmlDesc, ok := m.xmls[name]
	if !ok {
		return "", fmt.Errorf("network %s not found", name)
	}
	return xmlDesc, nil
}

func (m *mockTool) NetExists(_ context.Context, name string) (bool, error) {
	_, ok := m.states[name]
	return ok, nil
}

func (m *mockTool) NetStateDict(_ context.Context) (map[string]NetState, error) {
	if m.netStateDictFunc != nil {
		return m.netStateDictFunc()
	}
	out := make(map[string]NetState, len(m.states))
	for k, v := range m.states {
		out[k] = v
	}
	return out, nil
}

package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	fleetconsole "github.com/routerfleet/FleetConsole"
	"github.com/routerfleet/FleetConsole/internal/sheet"
)

// View represents different screens in the console.
type View int

const (
	ViewTable View = iota
	ViewBulkPrompt
	ViewAddForm
	ViewEditForm
	ViewConfirmDelete
	ViewImportPick
	ViewImportPreview
	ViewUploadPick
)

// Form field order for the add/edit device forms.
const (
	fieldIP = iota
	fieldUsername
	fieldPassword
	fieldAPIPort
	fieldSSHPort
	fieldCount
)

// Model is the main Bubbletea model for the console.
type Model struct {
	session *fleetconsole.Session

	// State
	view    View
	cursor  int
	width   int
	height  int
	working bool

	// Filter view
	filter    fleetconsole.Filter
	searching bool

	// Upload target, set either from the recovery context or the cursor row.
	uploadArch string

	// Single-device target for the version prompt; nil means the prompt
	// drives the selected batch.
	promptTarget *fleetconsole.Device

	// Components
	keys        KeyMap
	help        help.Model
	spinner     spinner.Model
	styles      Styles
	searchInput textinput.Model
	bulkInput   textinput.Model
	formInputs  []textinput.Model
	formFocus   int
	filepicker  filepicker.Model
}

// devicesMsg signals the device list fetch finished.
type devicesMsg struct {
	err error
}

// bulkDoneMsg delivers the outcome of a sequential update batch.
type bulkDoneMsg struct {
	run *fleetconsole.BulkUpdateRun
	err error
}

// singleUpdateDoneMsg signals a one-device update finished.
type singleUpdateDoneMsg struct {
	err error
}

// refreshDoneMsg delivers the outcome of a refresh batch.
type refreshDoneMsg struct {
	summary *fleetconsole.RefreshSummary
	err     error
}

// importParsedMsg delivers workbook candidates from async parsing.
type importParsedMsg struct {
	devices []fleetconsole.Device
	err     error
}

// importDoneMsg signals a bulk import commit finished.
type importDoneMsg struct {
	err error
}

// uploadDoneMsg signals a package upload finished.
type uploadDoneMsg struct {
	err error
}

// mutateDoneMsg signals a device add/edit/delete finished.
type mutateDoneMsg struct {
	err error
}

// NewModel creates the console model around an existing session.
func NewModel(session *fleetconsole.Session) Model {
	h := help.New()
	h.ShowAll = false

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	search := textinput.New()
	search.Placeholder = "search ip, user, arch, version"
	search.CharLimit = 64

	bulk := textinput.New()
	bulk.Placeholder = "e.g. 7.14.2"
	bulk.CharLimit = 32

	fp := filepicker.New()
	fp.DirAllowed = true
	fp.FileAllowed = true
	fp.ShowHidden = false
	fp.SetHeight(15)
	if cwd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = cwd
	} else {
		fp.CurrentDirectory = "."
	}

	return Model{
		session:     session,
		view:        ViewTable,
		keys:        DefaultKeyMap(),
		help:        h,
		spinner:     s,
		styles:      DefaultStyles(),
		searchInput: search,
		bulkInput:   bulk,
		filepicker:  fp,
	}
}

// Init fetches the fleet on launch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchDevicesCmd(m.session), m.spinner.Tick)
}

// visible is the filtered device list the table renders.
func (m Model) visible() []fleetconsole.Device {
	return m.filter.Visible(m.session.Devices())
}

// cursorDevice returns the device under the cursor, if any.
func (m Model) cursorDevice() (fleetconsole.Device, bool) {
	visible := m.visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return fleetconsole.Device{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	max := len(m.visible()) - 1
	if m.cursor > max {
		m.cursor = max
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case devicesMsg:
		m.clampCursor()
		return m, nil

	case bulkDoneMsg:
		// A halted run needs no handling here; the recovery banner renders
		// from the session's open context.
		m.working = false
		return m, nil

	case singleUpdateDoneMsg:
		m.working = false
		return m, nil

	case refreshDoneMsg:
		m.working = false
		return m, nil

	case importParsedMsg:
		m.working = false
		if msg.err != nil {
			m.session.SetImportError("Error parsing file: " + msg.err.Error())
			m.view = ViewTable
			return m, nil
		}
		m.session.SetImportPreview(msg.devices)
		m.view = ViewImportPreview
		m.cursor = 0
		return m, nil

	case importDoneMsg:
		m.working = false
		m.view = ViewTable
		m.clampCursor()
		return m, nil

	case uploadDoneMsg:
		m.working = false
		m.view = ViewTable
		return m, nil

	case mutateDoneMsg:
		m.working = false
		m.view = ViewTable
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateComponents(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal inputs swallow keys before the table bindings.
	if m.searching {
		return m.handleSearchKey(msg)
	}
	switch m.view {
	case ViewBulkPrompt:
		return m.handleBulkPromptKey(msg)
	case ViewAddForm, ViewEditForm:
		return m.handleFormKey(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKey(msg)
	case ViewImportPick, ViewUploadPick:
		return m.handlePickerKey(msg)
	case ViewImportPreview:
		return m.handleImportPreviewKey(msg)
	}
	return m.handleTableKey(msg)
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if d, ok := m.cursorDevice(); ok {
			m.session.Toggle(d.IP)
		}
		return m, nil

	case key.Matches(msg, m.keys.SelectAll):
		visible := m.visible()
		if m.session.AllVisibleSelected(visible) {
			m.session.DeselectVisible(visible)
		} else {
			m.session.SelectAll(visible)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.SetValue(m.filter.Search)
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Arch):
		m.filter.Architecture = nextChoice(fleetconsole.Architectures(m.session.Devices()), m.filter.Architecture)
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.Version):
		m.filter.Version = nextChoice(fleetconsole.Versions(m.session.Devices()), m.filter.Version)
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.filter = fleetconsole.Filter{}
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.Update):
		if m.working || m.session.SelectedCount() == 0 {
			return m, nil
		}
		m.view = ViewBulkPrompt
		m.promptTarget = nil
		m.bulkInput.SetValue("")
		m.bulkInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.UpdateOne):
		d, ok := m.cursorDevice()
		if !ok || m.working {
			return m, nil
		}
		m.view = ViewBulkPrompt
		m.promptTarget = &d
		m.bulkInput.SetValue(d.DesiredVersion)
		m.bulkInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		if m.working {
			return m, nil
		}
		m.working = true
		selectedOnly := m.session.SelectedCount() > 0
		return m, tea.Batch(refreshCmd(m.session, selectedOnly), m.spinner.Tick)

	case key.Matches(msg, m.keys.Add):
		m.view = ViewAddForm
		m.formInputs = newDeviceForm(fleetconsole.Device{})
		m.formFocus = 0
		m.formInputs[0].Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Edit):
		if d, ok := m.cursorDevice(); ok {
			m.view = ViewEditForm
			m.formInputs = newDeviceForm(d)
			m.formFocus = fieldUsername
			m.formInputs[fieldUsername].Focus()
			return m, textinput.Blink
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.cursorDevice(); ok {
			m.view = ViewConfirmDelete
		}
		return m, nil

	case key.Matches(msg, m.keys.Import):
		m.view = ViewImportPick
		m.filepicker.AllowedTypes = []string{".xlsx"}
		return m, m.filepicker.Init()

	case key.Matches(msg, m.keys.Upload):
		// Prefer the recovery context; fall back to the cursor row's
		// architecture for a proactive upload.
		if rc := m.session.Recovery(); rc != nil {
			m.uploadArch = rc.Architecture
		} else if d, ok := m.cursorDevice(); ok {
			m.uploadArch = d.Architecture
		} else {
			return m, nil
		}
		m.view = ViewUploadPick
		m.filepicker.AllowedTypes = []string{".npk"}
		return m, m.filepicker.Init()

	case key.Matches(msg, m.keys.Back):
		if m.session.Recovery() != nil {
			m.session.ClearRecovery()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.filter.Search = ""
		m.clampCursor()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.filter.Search = m.searchInput.Value()
	m.clampCursor()
	return m, cmd
}

func (m Model) handleBulkPromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		version := strings.TrimSpace(m.bulkInput.Value())
		m.bulkInput.Blur()
		m.view = ViewTable
		if m.promptTarget != nil {
			target := m.promptTarget.WithDesiredVersion(version)
			m.promptTarget = nil
			if version == "" {
				return m, nil
			}
			m.working = true
			return m, tea.Batch(updateDeviceCmd(m.session, target), m.spinner.Tick)
		}
		if version == "" {
			// The session records the validation status line.
			return m, updateSelectedCmd(m.session, version)
		}
		m.working = true
		return m, tea.Batch(updateSelectedCmd(m.session, version), m.spinner.Tick)
	case tea.KeyEsc:
		m.bulkInput.Blur()
		m.promptTarget = nil
		m.view = ViewTable
		return m, nil
	}
	var cmd tea.Cmd
	m.bulkInput, cmd = m.bulkInput.Update(msg)
	return m, cmd
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.view = ViewTable
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		m.formInputs[m.formFocus].Blur()
		m.formFocus = (m.formFocus + 1) % len(m.formInputs)
		m.formInputs[m.formFocus].Focus()
		return m, textinput.Blink

	case tea.KeyShiftTab, tea.KeyUp:
		m.formInputs[m.formFocus].Blur()
		m.formFocus = (m.formFocus + len(m.formInputs) - 1) % len(m.formInputs)
		m.formInputs[m.formFocus].Focus()
		return m, textinput.Blink

	case tea.KeyEnter:
		device := m.formDevice()
		if device.IP == "" {
			return m, nil
		}
		m.working = true
		if m.view == ViewAddForm {
			return m, tea.Batch(addDeviceCmd(m.session, device), m.spinner.Tick)
		}
		return m, tea.Batch(saveDeviceCmd(m.session, device), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m Model) handleConfirmDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		d, ok := m.cursorDevice()
		if !ok {
			m.view = ViewTable
			return m, nil
		}
		m.working = true
		return m, tea.Batch(removeDeviceCmd(m.session, d.IP), m.spinner.Tick)
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.view = ViewTable
		return m, nil
	}
	return m, nil
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Quit) {
		m.view = ViewTable
		return m, nil
	}
	return m.updateComponents(msg)
}

func (m Model) handleImportPreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if m.working {
			return m, nil
		}
		m.working = true
		return m, tea.Batch(commitImportCmd(m.session), m.spinner.Tick)
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.session.ClearImport()
		m.view = ViewTable
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.session.ImportPreview())-1 {
			m.cursor++
		}
		return m, nil
	}
	return m, nil
}

// updateComponents routes non-key messages to the active bubbles component.
func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != ViewImportPick && m.view != ViewUploadPick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filepicker, cmd = m.filepicker.Update(msg)

	if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
		m.working = true
		if m.view == ViewImportPick {
			m.view = ViewTable
			return m, tea.Batch(parseWorkbookCmd(path), m.spinner.Tick)
		}
		m.view = ViewTable
		return m, tea.Batch(uploadPackageCmd(m.session, m.uploadArch, path), m.spinner.Tick)
	}
	return m, cmd
}

// formDevice collects the form inputs into a device. Edits keep the ip from
// the form's read-only first field.
func (m Model) formDevice() fleetconsole.Device {
	return fleetconsole.Device{
		IP:       strings.TrimSpace(m.formInputs[fieldIP].Value()),
		Username: strings.TrimSpace(m.formInputs[fieldUsername].Value()),
		Password: m.formInputs[fieldPassword].Value(),
		APIPort:  strings.TrimSpace(m.formInputs[fieldAPIPort].Value()),
		SSHPort:  strings.TrimSpace(m.formInputs[fieldSSHPort].Value()),
	}
}

func newDeviceForm(d fleetconsole.Device) []textinput.Model {
	labels := [fieldCount]struct {
		placeholder string
		value       string
	}{
		{"192.168.88.1", d.IP},
		{"admin", d.Username},
		{"password", d.Password},
		{"8728", d.APIPort},
		{"22", d.SSHPort},
	}
	inputs := make([]textinput.Model, fieldCount)
	for i, l := range labels {
		in := textinput.New()
		in.Placeholder = l.placeholder
		in.CharLimit = 64
		in.SetValue(l.value)
		if i == fieldPassword {
			in.EchoMode = textinput.EchoPassword
		}
		inputs[i] = in
	}
	return inputs
}

// nextChoice cycles a filter through "", then each choice in order.
func nextChoice(choices []string, current string) string {
	if current == "" {
		if len(choices) == 0 {
			return ""
		}
		return choices[0]
	}
	for i, c := range choices {
		if c == current {
			if i+1 < len(choices) {
				return choices[i+1]
			}
			return ""
		}
	}
	return ""
}

// View renders the active screen.
func (m Model) View() string {
	var content string

	switch m.view {
	case ViewTable:
		content = m.viewTable()
	case ViewBulkPrompt:
		content = m.viewBulkPrompt()
	case ViewAddForm:
		content = m.viewForm("Add Device")
	case ViewEditForm:
		content = m.viewForm("Edit Device")
	case ViewConfirmDelete:
		content = m.viewConfirmDelete()
	case ViewImportPick:
		content = m.viewPicker("Select Workbook (.xlsx)")
	case ViewImportPreview:
		content = m.viewImportPreview()
	case ViewUploadPick:
		content = m.viewPicker(fmt.Sprintf("Select Package for %s (.npk)", m.uploadArch))
	default:
		content = "Unknown view"
	}

	helpView := m.styles.Help.Render(m.help.View(m.keys))

	return m.styles.App.Render(content + "\n" + helpView)
}

func (m Model) viewTable() string {
	var b strings.Builder

	b.WriteString(m.renderTitleBar())
	b.WriteString("\n")

	b.WriteString(m.renderFilterLine())
	b.WriteString("\n\n")

	if rc := m.session.Recovery(); rc != nil {
		banner := fmt.Sprintf("Package missing for %s %s. Press 'p' to upload it, esc to dismiss.",
			rc.Architecture, rc.Version)
		b.WriteString(m.styles.Warning.Render(banner))
		b.WriteString("\n\n")
	}

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(m.styles.Muted.Render("No devices match the current view."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.styles.Header.Render(fmt.Sprintf("    %-16s %-12s %-10s %-10s %-s",
			"IP", "USER", "ARCH", "VERSION", "STATUS")))
		b.WriteString("\n")
		for i, d := range visible {
			b.WriteString(m.renderRow(i, d))
			b.WriteString("\n")
		}
	}

	if msg := m.session.ImportError(); msg != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(msg))
		b.WriteString("\n")
	}
	if results := m.session.ImportResults(); len(results) != 0 {
		b.WriteString("\n")
		b.WriteString(m.renderImportResults(results))
	}

	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderTitleBar() string {
	parts := []string{m.styles.Title.Render("Fleet Console")}
	if m.working {
		parts = append(parts, m.spinner.View()+" "+m.styles.Warning.Render("Working..."))
	}
	parts = append(parts, m.styles.Muted.Render(fmt.Sprintf("%d devices, %d selected",
		len(m.session.Devices()), m.session.SelectedCount())))
	return strings.Join(parts, "  ")
}

func (m Model) renderFilterLine() string {
	arch := m.filter.Architecture
	if arch == "" {
		arch = "all"
	}
	version := m.filter.Version
	if version == "" {
		version = "all"
	}
	line := fmt.Sprintf("arch: %s  version: %s", arch, version)
	if m.searching {
		return m.styles.Muted.Render(line) + "  search: " + m.searchInput.View()
	}
	if m.filter.Search != "" {
		// An active search term is the only thing the table filters by.
		return m.styles.Muted.Render("search: ") + m.styles.Highlight.Render(m.filter.Search)
	}
	return m.styles.Muted.Render(line)
}

func (m Model) renderRow(i int, d fleetconsole.Device) string {
	mark := "[ ]"
	if m.session.IsSelected(d.IP) {
		mark = "[x]"
	}
	status := m.session.DisplayStatus(d.IP)
	line := fmt.Sprintf("%s %-16s %-12s %-10s %-10s %-s",
		mark, d.IP, d.Username, d.Architecture, d.CurrentVersion, status)

	switch {
	case i == m.cursor:
		return m.styles.RowCursor.Render("> " + line)
	case m.session.IsSelected(d.IP):
		return m.styles.RowSelected.Render("  " + line)
	default:
		return m.styles.Row.Render("  " + line)
	}
}

func (m Model) renderImportResults(results []fleetconsole.ImportResult) string {
	var b strings.Builder
	ok := 0
	for _, r := range results {
		if r.Status == fleetconsole.ImportStatusSuccess {
			ok++
		}
	}
	b.WriteString(m.styles.Success.Render(fmt.Sprintf("Imported %d of %d devices", ok, len(results))))
	b.WriteString("\n")
	for _, r := range results {
		if r.Status == fleetconsole.ImportStatusSuccess {
			continue
		}
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("  %s: %s", r.IP, r.Error)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderStatusBar() string {
	line := m.session.StatusLine()
	if line == "" {
		return ""
	}
	style := m.styles.StatusBar
	if strings.HasPrefix(line, "Error") {
		style = style.Foreground(lipgloss.Color("#FF6B6B"))
	}
	return style.Render(line)
}

func (m Model) viewBulkPrompt() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Firmware Update"))
	b.WriteString("\n\n")
	if m.promptTarget != nil {
		b.WriteString(fmt.Sprintf("Updating %s.\n\n", m.promptTarget.IP))
	} else {
		b.WriteString(fmt.Sprintf("Updating %d selected devices.\n\n", m.session.SelectedCount()))
	}
	b.WriteString(m.styles.Label.Render("Target version"))
	b.WriteString(m.bulkInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Muted.Render("enter start • esc cancel"))
	return b.String()
}

func (m Model) viewForm(title string) string {
	labels := [fieldCount]string{"IP", "Username", "Password", "API Port", "SSH Port"}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n\n")
	for i, in := range m.formInputs {
		b.WriteString(m.styles.Label.Render(labels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("tab next field • enter save • esc cancel"))
	return b.String()
}

func (m Model) viewConfirmDelete() string {
	d, ok := m.cursorDevice()
	if !ok {
		return m.styles.Muted.Render("Nothing to delete.")
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Delete Device"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Remove %s (%s) from the registry?\n\n", d.IP, d.Username))
	b.WriteString(m.styles.Muted.Render("enter delete • esc cancel"))
	return b.String()
}

func (m Model) viewPicker(title string) string {
	return m.styles.Title.Render(title) + "\n" +
		m.styles.Muted.Render("Directory: "+m.filepicker.CurrentDirectory) + "\n\n" +
		m.filepicker.View() + "\n\n" +
		m.styles.Muted.Render("↑/↓ navigate • enter select • esc cancel")
}

func (m Model) viewImportPreview() string {
	preview := m.session.ImportPreview()

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Import Preview"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%d candidate devices\n\n", len(preview)))
	b.WriteString(m.styles.Header.Render(fmt.Sprintf("  %-16s %-12s %-10s %-10s",
		"IP", "USER", "ARCH", "VERSION")))
	b.WriteString("\n")
	for i, d := range preview {
		line := fmt.Sprintf("%-16s %-12s %-10s %-10s", d.IP, d.Username, d.Architecture, d.CurrentVersion)
		if i == m.cursor {
			b.WriteString(m.styles.RowCursor.Render("> " + line))
		} else {
			b.WriteString(m.styles.Row.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("enter import all • esc discard"))
	return b.String()
}

// --- Commands ---

func fetchDevicesCmd(session *fleetconsole.Session) tea.Cmd {
	return func() tea.Msg {
		err := session.FetchDevices(context.Background())
		return devicesMsg{err: err}
	}
}

func updateSelectedCmd(session *fleetconsole.Session, version string) tea.Cmd {
	return func() tea.Msg {
		run, err := session.UpdateSelected(context.Background(), version)
		return bulkDoneMsg{run: run, err: err}
	}
}

func updateDeviceCmd(session *fleetconsole.Session, device fleetconsole.Device) tea.Cmd {
	return func() tea.Msg {
		err := session.UpdateDevice(context.Background(), device)
		return singleUpdateDoneMsg{err: err}
	}
}

func refreshCmd(session *fleetconsole.Session, selectedOnly bool) tea.Cmd {
	return func() tea.Msg {
		summary, err := session.RefreshDevices(context.Background(), selectedOnly)
		return refreshDoneMsg{summary: summary, err: err}
	}
}

func parseWorkbookCmd(path string) tea.Cmd {
	return func() tea.Msg {
		devices, err := sheet.ParseFile(path)
		return importParsedMsg{devices: devices, err: err}
	}
}

func commitImportCmd(session *fleetconsole.Session) tea.Cmd {
	return func() tea.Msg {
		_, err := session.CommitImport(context.Background())
		return importDoneMsg{err: err}
	}
}

func uploadPackageCmd(session *fleetconsole.Session, architecture, path string) tea.Cmd {
	return func() tea.Msg {
		var err error
		if rc := session.Recovery(); rc != nil && rc.Architecture == architecture {
			err = session.UploadRecoveryPackage(context.Background(), path)
		} else {
			err = session.UploadPackageFor(context.Background(), architecture, path)
		}
		return uploadDoneMsg{err: err}
	}
}

func addDeviceCmd(session *fleetconsole.Session, device fleetconsole.Device) tea.Cmd {
	return func() tea.Msg {
		return mutateDoneMsg{err: session.AddDevice(context.Background(), device)}
	}
}

func saveDeviceCmd(session *fleetconsole.Session, device fleetconsole.Device) tea.Cmd {
	return func() tea.Msg {
		return mutateDoneMsg{err: session.SaveDevice(context.Background(), device)}
	}
}

func removeDeviceCmd(session *fleetconsole.Session, ip string) tea.Cmd {
	return func() tea.Msg {
		return mutateDoneMsg{err: session.RemoveDevice(context.Background(), ip)}
	}
}

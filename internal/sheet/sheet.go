// Package sheet parses an uploaded spreadsheet into normalized device
// candidates for the import pipeline.
package sheet

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	fleetconsole "github.com/routerfleet/FleetConsole"
)

// ErrBadWorkbook wraps every parse failure: an unreadable workbook yields
// one pipeline-level error and an empty candidate list, never a partial
// parse.
var ErrBadWorkbook = errors.New("unreadable workbook")

// columnRule resolves one device field from a row: the primary lowercase
// header first, then the human-readable alias most spreadsheet templates
// export, defaulting to empty. Cell values arrive already formatted as
// strings, so numeric ports keep their leading zeros.
type columnRule struct {
	primary string
	alias   string
	assign  func(*fleetconsole.Device, string)
}

var columnRules = []columnRule{
	{"ip", "IP", func(d *fleetconsole.Device, v string) { d.IP = v }},
	{"username", "Username", func(d *fleetconsole.Device, v string) { d.Username = v }},
	{"password", "Password", func(d *fleetconsole.Device, v string) { d.Password = v }},
	{"api_port", "API Port", func(d *fleetconsole.Device, v string) { d.APIPort = v }},
	{"ssh_port", "SSH Port", func(d *fleetconsole.Device, v string) { d.SSHPort = v }},
	{"architecture", "Architecture", func(d *fleetconsole.Device, v string) { d.Architecture = v }},
	{"current_version", "Current Version", func(d *fleetconsole.Device, v string) { d.CurrentVersion = v }},
}

// ParseFile reads the workbook at path and normalizes its first sheet.
func ParseFile(path string) ([]fleetconsole.Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(ErrBadWorkbook, err.Error())
	}
	defer f.Close()
	return Parse(f)
}

// Parse normalizes the first sheet of an xlsx workbook into device
// candidates. The header row names the columns; each subsequent row becomes
// one candidate with desired_version forced empty; a target version is
// chosen per update run, not at import time. Rows whose resolved
// fields are all blank are skipped.
func Parse(r io.Reader) ([]fleetconsole.Device, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(ErrBadWorkbook, err.Error())
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Wrap(ErrBadWorkbook, "workbook has no sheets")
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(ErrBadWorkbook, err.Error())
	}
	if len(rows) == 0 {
		return []fleetconsole.Device{}, nil
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}

	devices := make([]fleetconsole.Device, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var d fleetconsole.Device
		empty := true
		for _, rule := range columnRules {
			val := resolve(header, row, rule.primary, rule.alias)
			if val != "" {
				empty = false
			}
			rule.assign(&d, val)
		}
		if empty {
			continue
		}
		d.DesiredVersion = ""
		devices = append(devices, d)
	}
	log.Debug().Int("rows", len(rows)-1).Int("devices", len(devices)).Str("sheet", sheets[0]).Msg("workbook normalized")
	return devices, nil
}

func resolve(header map[string]int, row []string, primary, alias string) string {
	if val := cell(header, row, primary); val != "" {
		return val
	}
	return cell(header, row, alias)
}

func cell(header map[string]int, row []string, name string) string {
	idx, ok := header[name]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

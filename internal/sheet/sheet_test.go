package sheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	fleetconsole "github.com/routerfleet/FleetConsole"
)

func workbookBytes(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	book := excelize.NewFile()
	defer book.Close()
	sheetName := book.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, book.SetSheetRow(sheetName, cellRef, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, book.Write(&buf))
	return &buf
}

func TestParseLowercaseHeaders(t *testing.T) {
	buf := workbookBytes(t, [][]any{
		{"ip", "username", "password", "api_port", "ssh_port", "architecture", "current_version"},
		{"10.0.0.1", "admin", "secret", "8728", "22", "arm", "7.10"},
		{"10.0.0.2", "ops", "hunter2", "8728", "2222", "mipsbe", "6.49"},
	})

	devices, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, fleetconsole.Device{
		IP:             "10.0.0.1",
		Username:       "admin",
		Password:       "secret",
		APIPort:        "8728",
		SSHPort:        "22",
		Architecture:   "arm",
		CurrentVersion: "7.10",
	}, devices[0])
	assert.Equal(t, "mipsbe", devices[1].Architecture)
}

func TestParseAliasHeaders(t *testing.T) {
	buf := workbookBytes(t, [][]any{
		{"IP", "Username", "Password", "API Port", "SSH Port", "Architecture", "Current Version"},
		{"10.0.0.9", "admin", "pw", "8729", "22", "arm", "7.1"},
	})

	devices, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "10.0.0.9", devices[0].IP)
	assert.Equal(t, "8729", devices[0].APIPort)
	assert.Equal(t, "arm", devices[0].Architecture)
	assert.Equal(t, "7.1", devices[0].CurrentVersion)
	assert.Empty(t, devices[0].DesiredVersion)
}

func TestParsePrimaryHeaderWins(t *testing.T) {
	// Both spellings present: the lowercase key is authoritative.
	buf := workbookBytes(t, [][]any{
		{"ip", "IP"},
		{"10.0.0.1", "192.168.0.1"},
	})

	devices, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "10.0.0.1", devices[0].IP)
}

func TestParseMissingColumnsYieldEmptyFields(t *testing.T) {
	buf := workbookBytes(t, [][]any{
		{"Architecture", "Current Version"},
		{"arm", "7.1"},
	})

	devices, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "arm", devices[0].Architecture)
	assert.Equal(t, "7.1", devices[0].CurrentVersion)
	assert.Empty(t, devices[0].IP)
	assert.Empty(t, devices[0].Username)
	assert.Empty(t, devices[0].DesiredVersion)
}

func TestParseDesiredVersionColumnIgnored(t *testing.T) {
	buf := workbookBytes(t, [][]any{
		{"ip", "desired_version"},
		{"10.0.0.1", "7.99"},
	})

	devices, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Empty(t, devices[0].DesiredVersion)
}

func TestParseSkipsBlankRows(t *testing.T) {
	buf := workbookBytes(t, [][]any{
		{"ip", "username"},
		{"10.0.0.1", "admin"},
		{"", ""},
		{"10.0.0.2", "ops"},
	})

	devices, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "10.0.0.2", devices[1].IP)
}

func TestParseHeaderOnlyWorkbook(t *testing.T) {
	buf := workbookBytes(t, [][]any{
		{"ip", "username"},
	})

	devices, err := Parse(buf)
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestParseRejectsGarbage(t *testing.T) {
	devices, err := Parse(strings.NewReader("this is not a workbook"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadWorkbook))
	assert.Empty(t, devices)
}

func TestParseFileMissingPath(t *testing.T) {
	devices, err := ParseFile("/nonexistent/devices.xlsx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadWorkbook))
	assert.Empty(t, devices)
}

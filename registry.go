package fleetconsole

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// RegistryClient is the wire contract with the device registry service. All
// durable fleet state lives behind it; this core only orchestrates.
type RegistryClient interface {
	// ListDevices fetches the authoritative device list.
	ListDevices(ctx context.Context) ([]Device, error)
	// CreateDevice registers one device. The registry probes it and fills
	// architecture and current version server-side.
	CreateDevice(ctx context.Context, device Device) error
	// DeleteDevice removes the device keyed by ip.
	DeleteDevice(ctx context.Context, ip string) error
	// EditDevice replaces the stored credentials/ports for device.IP.
	EditDevice(ctx context.Context, device Device) error
	// UpdateFirmware pushes device.DesiredVersion to one appliance and
	// returns the server-reported status string. A missing firmware
	// artifact is returned as *PackageNotFoundError.
	UpdateFirmware(ctx context.Context, device Device) (string, error)
	// RefreshInfo re-probes the named devices in one server-side batch.
	// An empty ips slice means the whole fleet.
	RefreshInfo(ctx context.Context, ips []string) (*RefreshReport, error)
	// UploadPackage transfers a firmware artifact for one architecture.
	UploadPackage(ctx context.Context, architecture, filename string, content io.Reader) error
	// BulkCreate registers many devices in one request and returns one
	// result per input row, in request order.
	BulkCreate(ctx context.Context, devices []Device) ([]ImportResult, error)
	// CheckPackage reports whether an artifact exists for the pair.
	CheckPackage(ctx context.Context, architecture, version string) (bool, error)
	// Ping verifies the registry is reachable.
	Ping(ctx context.Context) error
}

// RefreshReport is the two-list outcome of a refresh batch. The server
// guarantees an ip appears in at most one list; that contract is trusted,
// not defended.
type RefreshReport struct {
	Updated []string
	Errors  []RefreshError
}

// RefreshError is one failed probe inside a refresh batch.
type RefreshError struct {
	IP    string `json:"ip"`
	Error string `json:"error"`
}

// ImportResult is one per-row outcome of a bulk import.
type ImportResult struct {
	IP     string `json:"ip"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type restRegistryClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRegistryClient builds the REST client for the registry service. A nil
// httpClient gets a default with no timeout: a firmware push can run for
// minutes and the registry offers no async handle to poll instead.
func NewRegistryClient(baseURL string, httpClient *http.Client) (RegistryClient, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("registry base url is empty")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &restRegistryClient{baseURL: baseURL, httpClient: httpClient}, nil
}

func (c *restRegistryClient) ListDevices(ctx context.Context) ([]Device, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/devices", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build list devices request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "call registry list devices")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.errorFromResponse(resp, "Failed to fetch devices")
	}
	var devices []Device
	if err := json.NewDecoder(resp.Body).Decode(&devices); err != nil {
		return nil, errors.Wrap(err, "decode device list")
	}
	log.Debug().Int("devices", len(devices)).Msg("registry device list fetched")
	return devices, nil
}

func (c *restRegistryClient) CreateDevice(ctx context.Context, device Device) error {
	resp, err := c.postJSON(ctx, "/devices", device)
	if err != nil {
		return errors.Wrap(err, "call registry create device")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return c.errorFromResponse(resp, "Failed to add device")
	}
	return nil
}

func (c *restRegistryClient) DeleteDevice(ctx context.Context, ip string) error {
	endpoint := c.baseURL + "/devices/" + url.PathEscape(strings.TrimSpace(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "build delete device request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "call registry delete device")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return c.errorFromResponse(resp, "Failed to delete device")
	}
	return nil
}

func (c *restRegistryClient) EditDevice(ctx context.Context, device Device) error {
	endpoint := "/devices/" + url.PathEscape(strings.TrimSpace(device.IP))
	resp, err := c.sendJSON(ctx, http.MethodPut, endpoint, device)
	if err != nil {
		return errors.Wrap(err, "call registry edit device")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return c.errorFromResponse(resp, "Failed to update device")
	}
	return nil
}

func (c *restRegistryClient) UpdateFirmware(ctx context.Context, device Device) (string, error) {
	log.Debug().Str("ip", device.IP).Str("desired_version", device.DesiredVersion).Msg("requesting firmware update")
	resp, err := c.postJSON(ctx, "/update", device)
	if err != nil {
		return "", errors.Wrap(err, "call registry update")
	}
	defer resp.Body.Close()

	var parsed struct {
		Status       string `json:"status"`
		Error        string `json:"error"`
		Message      string `json:"message"`
		Architecture string `json:"architecture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errors.Wrap(err, "decode update response")
	}

	if resp.StatusCode == http.StatusNotFound && parsed.Error == "package_not_found" {
		arch := parsed.Architecture
		if arch == "" {
			arch = device.Architecture
		}
		return "", &PackageNotFoundError{Architecture: arch, Version: device.DesiredVersion}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		msg := parsed.Error
		if msg == "" {
			msg = "Update failed"
		}
		return "", errors.New(msg)
	}
	return parsed.Status, nil
}

func (c *restRegistryClient) RefreshInfo(ctx context.Context, ips []string) (*RefreshReport, error) {
	if ips == nil {
		// The registry treats an empty list as "refresh the whole fleet";
		// keep the field present on the wire.
		ips = []string{}
	}
	payload := struct {
		IPs []string `json:"ips"`
	}{IPs: ips}
	resp, err := c.postJSON(ctx, "/refresh-device-info", payload)
	if err != nil {
		return nil, errors.Wrap(err, "call registry refresh")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.errorFromResponse(resp, "Failed to refresh device info")
	}
	var parsed struct {
		UpdatedDevices []string       `json:"updated_devices"`
		Errors         []RefreshError `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "decode refresh response")
	}
	return &RefreshReport{Updated: parsed.UpdatedDevices, Errors: parsed.Errors}, nil
}

func (c *restRegistryClient) BulkCreate(ctx context.Context, devices []Device) ([]ImportResult, error) {
	payload := struct {
		Devices []Device `json:"devices"`
	}{Devices: devices}
	resp, err := c.postJSON(ctx, "/devices/bulk", payload)
	if err != nil {
		return nil, errors.Wrap(err, "call registry bulk create")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.errorFromResponse(resp, "Bulk import failed")
	}
	var parsed struct {
		Results []ImportResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "decode bulk create response")
	}
	return parsed.Results, nil
}

func (c *restRegistryClient) CheckPackage(ctx context.Context, architecture, version string) (bool, error) {
	endpoint := fmt.Sprintf("%s/check-package?architecture=%s&version=%s",
		c.baseURL, url.QueryEscape(architecture), url.QueryEscape(version))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, errors.Wrap(err, "build check package request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, errors.Wrap(err, "call registry check package")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return false, c.errorFromResponse(resp, "Failed to check package")
	}
	var parsed struct {
		Exists bool `json:"exists"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return false, errors.Wrap(err, "decode check package response")
	}
	return parsed.Exists, nil
}

func (c *restRegistryClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return errors.Wrap(err, "build ping request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "call registry ping")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return c.errorFromResponse(resp, "registry ping failed")
	}
	return nil
}

func (c *restRegistryClient) postJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	return c.sendJSON(ctx, http.MethodPost, path, payload)
}

func (c *restRegistryClient) sendJSON(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encode request payload")
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpClient.Do(req)
}

// errorFromResponse prefers the registry's own error field so the text the
// user sees matches what the service reported.
func (c *restRegistryClient) errorFromResponse(resp *http.Response, fallback string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return errors.New(parsed.Error)
	}
	if fallback != "" {
		return errors.New(fallback)
	}
	return errors.Errorf("registry request %s %s failed: status=%d body=%s",
		resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
}

package fleetconsole

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRegistryClientListDevices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/devices" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `[{"ip":"10.0.0.1","username":"admin","architecture":"arm","current_version":"7.10"}]`)
	}))
	defer srv.Close()

	client, err := NewRegistryClient(srv.URL+"/", nil)
	if err != nil {
		t.Fatalf("NewRegistryClient: %v", err)
	}
	devices, err := client.ListDevices(context.Background())
	if err != nil {
		t.Fatalf("ListDevices returned error: %v", err)
	}
	if len(devices) != 1 || devices[0].IP != "10.0.0.1" || devices[0].Architecture != "arm" {
		t.Fatalf("unexpected devices %+v", devices)
	}
}

func TestRegistryClientUpdateFirmwareClassification(t *testing.T) {
	var response struct {
		code int
		body string
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/update" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var sent Device
		if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if sent.DesiredVersion != "7.12" {
			t.Fatalf("desired version not on the wire: %+v", sent)
		}
		w.WriteHeader(response.code)
		io.WriteString(w, response.body)
	}))
	defer srv.Close()

	client, _ := NewRegistryClient(srv.URL, nil)
	device := Device{IP: "10.0.0.1", Architecture: "arm", DesiredVersion: "7.12"}

	response.code, response.body = http.StatusOK, `{"status":"updating"}`
	status, err := client.UpdateFirmware(context.Background(), device)
	if err != nil || status != "updating" {
		t.Fatalf("success path: status=%q err=%v", status, err)
	}

	response.code = http.StatusNotFound
	response.body = `{"status":"error","error":"package_not_found","message":"no such file","architecture":"arm"}`
	_, err = client.UpdateFirmware(context.Background(), device)
	pnf, ok := AsPackageNotFound(err)
	if !ok {
		t.Fatalf("expected PackageNotFoundError, got %v", err)
	}
	if pnf.Architecture != "arm" || pnf.Version != "7.12" {
		t.Fatalf("unexpected classification %+v", pnf)
	}

	// A plain 404 without the domain code is an ordinary error.
	response.body = `{"error":"no such device"}`
	_, err = client.UpdateFirmware(context.Background(), device)
	if _, ok := AsPackageNotFound(err); ok {
		t.Fatal("plain 404 must not classify as package-not-found")
	}
	if err == nil || err.Error() != "no such device" {
		t.Fatalf("expected server error text, got %v", err)
	}

	response.code, response.body = http.StatusInternalServerError, `{"status":"error","error":"update_failed","message":"ssh: dial tcp"}`
	_, err = client.UpdateFirmware(context.Background(), device)
	if err == nil || err.Error() != "update_failed" {
		t.Fatalf("expected update_failed, got %v", err)
	}

	response.code, response.body = http.StatusBadGateway, `{}`
	_, err = client.UpdateFirmware(context.Background(), device)
	if err == nil || err.Error() != "Update failed" {
		t.Fatalf("expected generic fallback, got %v", err)
	}
}

func TestRegistryClientRefreshInfo(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/refresh-device-info" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		io.WriteString(w, `{"status":"success","updated_devices":["10.0.0.1"],"errors":[{"ip":"10.0.0.2","error":"timeout"}]}`)
	}))
	defer srv.Close()

	client, _ := NewRegistryClient(srv.URL, nil)

	report, err := client.RefreshInfo(context.Background(), nil)
	if err != nil {
		t.Fatalf("RefreshInfo returned error: %v", err)
	}
	// nil must go on the wire as an empty list, the registry's "all" marker.
	if gotBody != `{"ips":[]}` {
		t.Fatalf("unexpected request body %s", gotBody)
	}
	if len(report.Updated) != 1 || report.Updated[0] != "10.0.0.1" {
		t.Fatalf("unexpected updated list %v", report.Updated)
	}
	if len(report.Errors) != 1 || report.Errors[0].Error != "timeout" {
		t.Fatalf("unexpected error list %v", report.Errors)
	}

	if _, err := client.RefreshInfo(context.Background(), []string{"10.0.0.3"}); err != nil {
		t.Fatalf("RefreshInfo returned error: %v", err)
	}
	if gotBody != `{"ips":["10.0.0.3"]}` {
		t.Fatalf("unexpected request body %s", gotBody)
	}
}

func TestRegistryClientBulkCreate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/devices/bulk" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var payload struct {
			Devices []Device `json:"devices"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(payload.Devices) != 2 || payload.Devices[0].IP != "10.1.0.1" {
			t.Fatalf("unexpected payload %+v", payload)
		}
		io.WriteString(w, `{"results":[{"ip":"10.1.0.1","status":"success"},{"ip":"10.1.0.2","status":"error","error":"Device with this IP already exists"}]}`)
	}))
	defer srv.Close()

	client, _ := NewRegistryClient(srv.URL, nil)
	results, err := client.BulkCreate(context.Background(), []Device{{IP: "10.1.0.1"}, {IP: "10.1.0.2"}})
	if err != nil {
		t.Fatalf("BulkCreate returned error: %v", err)
	}
	if len(results) != 2 || results[0].Status != "success" || results[1].Error == "" {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestRegistryClientUploadPackage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload-package" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("architecture"); got != "arm" {
			t.Fatalf("unexpected architecture field %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("file part missing: %v", err)
		}
		defer file.Close()
		if header.Filename != "routeros-arm-7.12.npk" {
			t.Fatalf("unexpected filename %q", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "firmware-bytes" {
			t.Fatalf("unexpected file content %q", data)
		}
		io.WriteString(w, `{"status":"success","message":"Package uploaded successfully"}`)
	}))
	defer srv.Close()

	client, _ := NewRegistryClient(srv.URL, nil)
	err := client.UploadPackage(context.Background(), "arm", "routeros-arm-7.12.npk", strings.NewReader("firmware-bytes"))
	if err != nil {
		t.Fatalf("UploadPackage returned error: %v", err)
	}
}

func TestRegistryClientErrorUsesServerField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"No file part"}`)
	}))
	defer srv.Close()

	client, _ := NewRegistryClient(srv.URL, nil)
	err := client.UploadPackage(context.Background(), "arm", "a.npk", strings.NewReader("x"))
	if err == nil || err.Error() != "No file part" {
		t.Fatalf("expected the server's own message, got %v", err)
	}

	if err := client.CreateDevice(context.Background(), Device{IP: "10.0.0.1"}); err == nil || err.Error() != "No file part" {
		t.Fatalf("expected the server's own message, got %v", err)
	}
}

func TestRegistryClientCheckPackageAndPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/check-package":
			if r.URL.Query().Get("architecture") != "arm" || r.URL.Query().Get("version") != "7.12" {
				t.Fatalf("unexpected query %s", r.URL.RawQuery)
			}
			io.WriteString(w, `{"exists":true,"path":"/os/arm/routeros-arm-7.12.npk"}`)
		case "/ping":
			io.WriteString(w, `{"status":"ok"}`)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client, _ := NewRegistryClient(srv.URL, nil)
	exists, err := client.CheckPackage(context.Background(), "arm", "7.12")
	if err != nil || !exists {
		t.Fatalf("CheckPackage: exists=%v err=%v", exists, err)
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
}

func TestNewRegistryClientRejectsEmptyURL(t *testing.T) {
	if _, err := NewRegistryClient("   ", nil); err == nil {
		t.Fatal("expected error for empty base url")
	}
}

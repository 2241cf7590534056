package fleetconsole

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Recovery (package upload) flow. The upload is parameterized by the
// captured recovery context; on success the context is cleared and the user
// re-issues the interrupted update themselves. There is no automatic retry:
// the fleet may have changed while the artifact was being produced, and a
// silent re-run could race those changes.

// UploadRecoveryPackage uploads the artifact at path for the open recovery
// context's architecture. Fails with ErrNoRecoveryContext when none is
// open; on upload failure the context is kept so the user can retry the
// upload itself.
func (s *Session) UploadRecoveryPackage(ctx context.Context, path string) error {
	rc := s.Recovery()
	if rc == nil {
		return ErrNoRecoveryContext
	}
	if err := s.UploadPackageFor(ctx, rc.Architecture, path); err != nil {
		return err
	}
	s.ClearRecovery()
	return nil
}

// UploadPackageFor uploads the artifact at path for an explicit
// architecture, independent of any recovery context. The headless CLI uses
// this directly.
func (s *Session) UploadPackageFor(ctx context.Context, architecture, path string) error {
	f, err := os.Open(path)
	if err != nil {
		s.setStatusLine("Error uploading package: " + err.Error())
		return errors.Wrap(err, "open package file")
	}
	defer f.Close()

	if err := s.client.UploadPackage(ctx, architecture, filepath.Base(path), f); err != nil {
		s.setStatusLine("Error uploading package: " + err.Error())
		return err
	}
	s.setStatusLine("Package uploaded successfully. You can now try updating the device again.")
	return nil
}

// UploadPackage sends the artifact as multipart form data: the file part
// plus an architecture field, matching the registry's upload endpoint.
func (c *restRegistryClient) UploadPackage(ctx context.Context, architecture, filename string, content io.Reader) error {
	architecture = strings.TrimSpace(architecture)
	if architecture == "" {
		return errors.New("architecture is empty")
	}
	if filename = filepath.Base(strings.TrimSpace(filename)); filename == "" || filename == "." {
		filename = "package.npk"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		_ = writer.Close()
		return errors.Wrap(err, "create multipart file field")
	}
	if _, err := io.Copy(part, content); err != nil {
		_ = writer.Close()
		return errors.Wrap(err, "write multipart file")
	}
	if err := writer.WriteField("architecture", architecture); err != nil {
		_ = writer.Close()
		return errors.Wrap(err, "write architecture field")
	}
	if err := writer.Close(); err != nil {
		return errors.Wrap(err, "finalize multipart payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-package", &body)
	if err != nil {
		return errors.Wrap(err, "build upload request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "call registry upload package")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return c.errorFromResponse(resp, "Failed to upload package")
	}
	return nil
}

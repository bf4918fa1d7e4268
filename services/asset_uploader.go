package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/menu-admin/utils"
)

// Asset is an image chosen in the dish form, not yet hosted anywhere.
type Asset struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// AssetUploader puts an image on an external host and returns its public URL.
type AssetUploader interface {
	Upload(ctx context.Context, asset Asset) (string, error)
}

// CloudinaryUploader uploads with an unsigned upload preset.
type CloudinaryUploader struct {
	uploadURL  string
	preset     string
	maxBytes   int64
	httpClient *http.Client
}

func NewCloudinaryUploader(uploadURL, preset string, maxBytes int64, timeout time.Duration) *CloudinaryUploader {
	return &CloudinaryUploader{
		uploadURL: uploadURL,
		preset:    preset,
		maxBytes:  maxBytes,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (cu *CloudinaryUploader) Upload(ctx context.Context, asset Asset) (string, error) {
	const op = "upload image"

	if asset.Body == nil {
		return "", ErrEmptyAsset
	}
	payload, err := io.ReadAll(io.LimitReader(asset.Body, cu.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("%s: read file: %w", op, err)
	}
	if len(payload) == 0 {
		return "", ErrEmptyAsset
	}
	if int64(len(payload)) > cu.maxBytes {
		return "", ErrAssetTooLarge
	}

	contentType := asset.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(payload)
	}
	filename := filepath.Base(strings.TrimSpace(asset.Filename))
	if filename == "" || filename == "." || filename == "/" {
		filename = "image"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("%s: build form: %w", op, err)
	}
	if _, err := part.Write(payload); err != nil {
		return "", fmt.Errorf("%s: build form: %w", op, err)
	}
	if err := mw.WriteField("upload_preset", cu.preset); err != nil {
		return "", fmt.Errorf("%s: build form: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%s: build form: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cu.uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := cu.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(respBody, resp.StatusCode)}
	}

	var uploaded struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.Unmarshal(respBody, &uploaded); err != nil {
		return "", &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	hosted := strings.TrimSpace(uploaded.SecureURL)
	if hosted == "" {
		return "", &TransportError{Op: op, Err: fmt.Errorf("response has no secure_url")}
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"file":  filename,
		"bytes": len(payload),
		"url":   hosted,
	}).Info("image uploaded")

	return hosted, nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

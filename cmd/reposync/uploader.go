package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/reposync/reposync/internal/review"
	"github.com/reposync/reposync/internal/vcserr"
)

// httpUploader posts an UploadRequest as JSON to <server>/upload. It is
// the CLI's concrete BundleUploader; review.UploadForReview itself
// stays transport-agnostic.
type httpUploader struct {
	client *http.Client
}

func newHTTPUploader() *httpUploader {
	return &httpUploader{client: &http.Client{Timeout: 30 * time.Second}}
}

func (u *httpUploader) UploadBundle(ctx context.Context, req review.UploadRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return &vcserr.UploadError{Kind: vcserr.UploadKindHTTP, Detail: err.Error()}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Server+"/upload", bytes.NewReader(body))
	if err != nil {
		return &vcserr.UploadError{Kind: vcserr.UploadKindHTTP, Detail: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(httpReq)
	if err != nil {
		return &vcserr.UploadError{Kind: vcserr.UploadKindHTTP, Detail: err.Error()}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &vcserr.UploadError{Kind: vcserr.UploadKindLogin, Detail: fmt.Sprintf("%s rejected credentials for %s", req.Server, req.Email)}
	default:
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &vcserr.UploadError{Kind: vcserr.UploadKindHTTP, Detail: fmt.Sprintf("%s returned %s", req.Server, resp.Status)}
		}
	}
	return nil
}

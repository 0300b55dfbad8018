// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package application

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/palladius/gcloud/pkg/constants"
)

// Downloader fetches remote resources such as the installer script.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

type downloader struct {
	client *http.Client
}

func NewDownloader() Downloader {
	return &downloader{client: &http.Client{Timeout: constants.DownloadTimeout}}
}

func (d *downloader) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constants.UserAgent)
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed downloading %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed downloading %s: unexpected http status code: %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Package fetch downloads files over HTTP for side-loading onto the device.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"os"
)

// Download fetches url into dest, creating or truncating it. A partial file
// is removed on failure.
func Download(url, dest string) error {
	data, err := Bytes(url)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}

// Bytes fetches url into memory. Any non-200 response is an error.
func Bytes(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	return data, nil
}

// Package source loads the raw spreadsheet from a local path or an
// HTTP(S) URL and parses every sheet into a Workbook.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/freshconn/tfcdash/pkg/tfcdash/models"
	"github.com/xuri/excelize/v2"
)

// DefaultFetchTimeout bounds the single HTTP fetch. There are no
// retries: loads are manually triggered and a failed fetch surfaces
// immediately.
const DefaultFetchTimeout = 15 * time.Second

// Loader fetches and parses workbooks.
type Loader struct {
	client  *http.Client
	timeout time.Duration
}

// New creates a Loader. A nil client uses http.DefaultClient.
func New(client *http.Client, timeout time.Duration) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Loader{client: client, timeout: timeout}
}

// IsURL reports whether the source identifier is an HTTP(S) URL.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load fetches the source and parses every sheet. Any failure — network
// error, missing file, malformed spreadsheet — returns an error
// wrapping models.ErrDataUnavailable and no workbook is produced.
func (l *Loader) Load(ctx context.Context, source string) (*models.Workbook, error) {
	var (
		f    *excelize.File
		name string
		err  error
	)
	if IsURL(source) {
		f, err = l.fetch(ctx, source)
		name = source
	} else {
		f, err = openFile(source)
		name = filepath.Base(source)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb := &models.Workbook{
		SourceName: name,
		Sheets:     make(map[string]models.Sheet),
	}
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("%w: read sheet %q: %v", models.ErrDataUnavailable, sheetName, err)
		}
		wb.Sheets[sheetName] = models.Sheet{Rows: rows}
	}
	return wb, nil
}

func (l *Loader) fetch(ctx context.Context, url string) (*excelize.File, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: bad URL %q: %v", models.ErrDataUnavailable, url, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %q: %v", models.ErrDataUnavailable, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %q: status %s", models.ErrDataUnavailable, url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %v", models.ErrDataUnavailable, url, err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", models.ErrDataUnavailable, url, err)
	}
	return f, nil
}

func openFile(path string) (*excelize.File, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", models.ErrDataUnavailable, path, err)
	}
	return f, nil
}

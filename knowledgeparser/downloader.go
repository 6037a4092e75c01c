package knowledgeparser

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/giygas/drug-interactions-api/logging"
)

// maxDownloadSize bounds remote knowledge files
const maxDownloadSize = 64 << 20

var httpClient = &http.Client{Timeout: 2 * time.Minute}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// download fetches a remote knowledge file and returns it as UTF-8
func download(url string) ([]byte, error) {
	response, err := httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s: unexpected status %s", url, response.Status)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > maxDownloadSize {
		return nil, fmt.Errorf("knowledge file at %s exceeds %d bytes", url, maxDownloadSize)
	}

	logging.Info("Knowledge file downloaded", "url", url, "bytes", len(body))
	return toUTF8(body)
}

// toUTF8 passes UTF-8 content through and decodes anything else as ISO-8859-1
func toUTF8(content []byte) ([]byte, error) {
	if utf8.Valid(content) {
		return content, nil
	}
	decoded, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode ISO-8859-1 content: %w", err)
	}
	return decoded, nil
}

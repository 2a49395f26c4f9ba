package checkout

import (
	"context"
	"sync"

	"github.com/pkg/browser"
)

// BrowserOpener opens the checkout page in the system browser.
type BrowserOpener struct{}

func (BrowserOpener) Open(ctx context.Context, url string) error {
	return browser.OpenURL(url)
}

// RecordingOpener keeps the last URL so an HTTP handler can redirect to it.
type RecordingOpener struct {
	mu  sync.Mutex
	url string
}

func (r *RecordingOpener) Open(ctx context.Context, url string) error {
	r.mu.Lock()
	r.url = url
	r.mu.Unlock()
	return nil
}

// URL returns the last opened URL, "" if none.
func (r *RecordingOpener) URL() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.url
}

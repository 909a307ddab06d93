package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/voicememo/recsync/internal/identity"
	"github.com/voicememo/recsync/internal/logger"
)

// HTTPConfig configures the edge-side HTTP transport.
type HTTPConfig struct {
	// BaseURL of the primary store, e.g. "http://store:8080".
	BaseURL string
	// RequestTimeout bounds individual requests except file uploads.
	RequestTimeout time.Duration
	// PollInterval is how often the transport probes reachability and
	// drains the store-side outbox.
	PollInterval time.Duration
}

// HTTPTransport implements Transport over HTTP against the primary store's
// server. It polls the store for queued control messages and raises the
// Events callbacks on its own goroutine.
type HTTPTransport struct {
	client       *resty.Client
	events       Events
	logger       *logger.Logger
	pollInterval time.Duration

	mu          sync.Mutex
	outstanding map[string]struct{}
	activated   bool
	reachable   bool
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewHTTPTransport builds the transport. Call Start to activate the session
// and begin polling.
func NewHTTPTransport(cfg HTTPConfig, events Events, log *logger.Logger) *HTTPTransport {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.RequestTimeout)

	return &HTTPTransport{
		client:       cli,
		events:       events,
		logger:       log,
		pollInterval: cfg.PollInterval,
		outstanding:  make(map[string]struct{}),
	}
}

// Start activates the session and launches the poll loop. It fires the
// SessionActivated event before returning.
func (t *HTTPTransport) Start(ctx context.Context) {
	t.mu.Lock()
	if t.activated {
		t.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	t.activated = true
	t.cancel = cancel
	t.wg.Add(1)
	t.mu.Unlock()

	go t.pollLoop(loopCtx)

	if t.events.SessionActivated != nil {
		t.events.SessionActivated()
	}
}

// Close stops the poll loop and waits for it to exit.
func (t *HTTPTransport) Close() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.activated = false
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	t.wg.Wait()
}

// IsActivated implements Transport.
func (t *HTTPTransport) IsActivated() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activated
}

// OutstandingTransferIDs implements Transport. The set contains uploads
// currently running in SendFile calls.
func (t *HTTPTransport) OutstandingTransferIDs() map[string]struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make(map[string]struct{}, len(t.outstanding))
	for id := range t.outstanding {
		ids[id] = struct{}{}
	}
	return ids
}

// SendFile implements Transport. The file travels as a multipart upload
// with the metadata dictionary serialized alongside it. No timeout applies:
// large recordings on a slow link take as long as they take, bounded only
// by ctx.
func (t *HTTPTransport) SendFile(ctx context.Context, path string, metadata map[string]any) error {
	id := identity.ExtractID(path)
	t.track(id)
	defer t.untrack(id)

	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode transfer metadata: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open recording for upload: %w", err)
	}
	defer f.Close()

	resp, err := t.client.R().
		SetContext(ctx).
		SetFileReader("file", filepath.Base(path), f).
		SetMultipartFormData(map[string]string{"metadata": string(metaJSON)}).
		Post("/api/recordings")
	if err != nil {
		return fmt.Errorf("upload recording: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("upload recording: unexpected status %s", resp.Status())
	}

	return nil
}

// SendMessage implements Transport.
func (t *HTTPTransport) SendMessage(ctx context.Context, payload map[string]any) error {
	return t.postMessage(ctx, payload, false)
}

// SendDurable implements Transport.
func (t *HTTPTransport) SendDurable(ctx context.Context, payload map[string]any) error {
	return t.postMessage(ctx, payload, true)
}

func (t *HTTPTransport) postMessage(ctx context.Context, payload map[string]any, durable bool) error {
	req := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	if durable {
		req.SetQueryParam("durable", "1")
	}

	resp, err := req.Post("/api/messages")
	if err != nil {
		return fmt.Errorf("send control message: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send control message: unexpected status %s", resp.Status())
	}
	return nil
}

func (t *HTTPTransport) pollLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	// probe immediately so the first reachability edge does not wait a
	// full interval
	t.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.pollOnce(ctx)
		}
	}
}

func (t *HTTPTransport) pollOnce(ctx context.Context) {
	reachable := t.ping(ctx)
	t.setReachable(reachable)
	if !reachable {
		return
	}

	batch, err := t.drainOutbox(ctx)
	if err != nil {
		t.logger.Warn().Err(err).Msg("failed to drain store outbox")
		return
	}

	if t.events.MessageReceived != nil {
		for _, msg := range batch.Messages {
			t.events.MessageReceived(msg)
		}
	}

	// acknowledged only after the handlers ran: a crash mid-dispatch means
	// the store re-serves the batch on the next poll
	if batch.Token != "" {
		t.ackOutbox(ctx, batch.Token)
	}
}

func (t *HTTPTransport) ping(ctx context.Context) bool {
	resp, err := t.client.R().SetContext(ctx).Get("/api/ping")
	return err == nil && !resp.IsError()
}

func (t *HTTPTransport) drainOutbox(ctx context.Context) (outboxPayload, error) {
	var batch outboxPayload
	resp, err := t.client.R().
		SetContext(ctx).
		SetResult(&batch).
		Get("/api/outbox")
	if err != nil {
		return outboxPayload{}, fmt.Errorf("fetch outbox: %w", err)
	}
	if resp.IsError() {
		return outboxPayload{}, fmt.Errorf("fetch outbox: unexpected status %s", resp.Status())
	}
	return batch, nil
}

func (t *HTTPTransport) ackOutbox(ctx context.Context, token string) {
	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(outboxAck{Token: token}).
		Post("/api/outbox/ack")
	if err != nil || resp.IsError() {
		// harmless: the store re-serves the batch and the handlers tolerate
		// duplicates
		t.logger.Warn().Err(err).Msg("failed to acknowledge outbox batch, expecting redelivery")
	}
}

func (t *HTTPTransport) setReachable(reachable bool) {
	t.mu.Lock()
	changed := t.reachable != reachable
	t.reachable = reachable
	t.mu.Unlock()

	if changed && t.events.ReachabilityChanged != nil {
		t.events.ReachabilityChanged(reachable)
	}
}

func (t *HTTPTransport) track(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.outstanding[id] = struct{}{}
}

func (t *HTTPTransport) untrack(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.outstanding, id)
}

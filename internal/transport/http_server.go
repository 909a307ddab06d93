package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"reflect"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/voicememo/recsync/internal/logger"
	"github.com/voicememo/recsync/internal/protocol"
)

// maxUploadMemory bounds the in-memory part of multipart parsing; larger
// file parts spill to disk.
const maxUploadMemory = 8 << 20

// ServerConfig configures the store-side HTTP endpoint.
type ServerConfig struct {
	// InboxDir receives uploaded files before the verification protocol
	// moves them to permanent storage.
	InboxDir string
	// ReachableWindow is how recently the edge must have polled the outbox
	// to count as reachable. Defaults to 30s.
	ReachableWindow time.Duration
}

// Server is the primary store's side of the reference HTTP transport. It
// accepts uploaded recordings and control messages, and queues outbound
// control messages until the edge polls for them and acknowledges delivery.
//
// Server implements Outbound: SendMessage requires the edge to be reachable
// (recently polling), SendDurable holds the latest message per recording
// until the edge shows up, however long that takes.
type Server struct {
	router   *chi.Mux
	inboxDir string
	events   Events
	logger   *logger.Logger

	mu              sync.Mutex
	queue           []map[string]any
	durable         map[string]map[string]any // recording id -> last message
	unacked         *outboxBatch
	lastPoll        time.Time
	reachableWindow time.Duration
}

// outboxPayload is the body of GET /api/outbox. Messages stay on the server
// until the edge acknowledges the batch token: a lost response or an edge
// crash mid-dispatch leads to redelivery on the next poll, never to loss.
type outboxPayload struct {
	Token    string           `json:"token"`
	Messages []map[string]any `json:"messages"`
}

// outboxAck is the body of POST /api/outbox/ack.
type outboxAck struct {
	Token string `json:"token"`
}

// outboxBatch remembers what the last poll served so an ack can drop exactly
// that. Durable payloads are snapshotted per key: an entry superseded while
// the batch was outstanding must survive the ack.
type outboxBatch struct {
	token   string
	queued  []map[string]any
	durable map[string]map[string]any
}

// NewServer builds the store-side endpoint. events.FileReceived and
// events.MessageReceived are invoked synchronously from request handlers.
func NewServer(cfg ServerConfig, events Events, log *logger.Logger) (*Server, error) {
	if err := os.MkdirAll(cfg.InboxDir, 0o750); err != nil {
		return nil, fmt.Errorf("create inbox dir: %w", err)
	}
	if cfg.ReachableWindow <= 0 {
		cfg.ReachableWindow = 30 * time.Second
	}

	s := &Server{
		inboxDir:        cfg.InboxDir,
		events:          events,
		logger:          log,
		durable:         make(map[string]map[string]any),
		reachableWindow: cfg.ReachableWindow,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.withLogging)

	r.Get("/api/ping", s.handlePing)
	r.Post("/api/recordings", s.handleUploadRecording)
	r.Post("/api/messages", s.handleIncomingMessage)
	r.Get("/api/outbox", s.handleOutbox)
	r.Post("/api/outbox/ack", s.handleOutboxAck)

	s.router = r
	return s, nil
}

// Router exposes the chi mux so the host can mount extra handlers (e.g.
// /metrics) and serve it.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// IsReachable implements Outbound.
func (s *Server) IsReachable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastPoll) < s.reachableWindow
}

// SendMessage implements Outbound. It queues the payload for the edge's
// next poll and fails when the edge has not polled recently, pushing the
// caller toward the durable channel.
func (s *Server) SendMessage(_ context.Context, payload map[string]any) error {
	if !s.IsReachable() {
		return fmt.Errorf("edge peer not reachable")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, payload)
	return nil
}

// SendDurable implements Outbound. Last value wins per recording id;
// payloads without an id share a single slot.
func (s *Server) SendDurable(_ context.Context, payload map[string]any) error {
	key, _ := payload[protocol.KeyRecordingID].(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.durable[key] = payload
	return nil
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUploadRecording(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		log.Err(err).Msg("invalid multipart upload")
		http.Error(w, "invalid multipart upload", http.StatusBadRequest)
		return
	}

	// metadata may legitimately be absent or malformed for legacy senders;
	// the verification protocol handles that case itself
	metadata := make(map[string]any)
	if raw := r.FormValue("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
			log.Warn().Err(err).Msg("unparsable transfer metadata, treating as absent")
			metadata = map[string]any{}
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Err(err).Msg("upload without file part")
		http.Error(w, "missing file part", http.StatusBadRequest)
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp(s.inboxDir, "upload-*.tmp")
	if err != nil {
		log.Err(err).Msg("failed to create inbox file")
		http.Error(w, "storage unavailable", http.StatusInternalServerError)
		return
	}
	if _, err = io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		log.Err(err).Msg("failed to spool upload")
		http.Error(w, "storage unavailable", http.StatusInternalServerError)
		return
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		log.Err(err).Msg("failed to finish spooling upload")
		http.Error(w, "storage unavailable", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("file_name", header.Filename).
		Int64("size", header.Size).
		Msg("recording received")

	if s.events.FileReceived != nil {
		s.events.FileReceived(tmp.Name(), header.Filename, metadata)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleIncomingMessage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Err(err).Msg("invalid control message body")
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if s.events.MessageReceived != nil {
		s.events.MessageReceived(payload)
	}

	w.WriteHeader(http.StatusAccepted)
}

// handleOutbox serves queued and durable messages without dropping them:
// everything served stays attributed to a batch token until the edge
// acknowledges it. A re-poll before the ack re-serves the same work, so the
// edge processing a batch and crashing costs a redelivery, not a message.
func (s *Server) handleOutbox(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.lastPoll = time.Now()

	var queued []map[string]any
	if s.unacked != nil {
		queued = append(queued, s.unacked.queued...)
	}
	queued = append(queued, s.queue...)
	s.queue = nil

	durableSnap := make(map[string]map[string]any, len(s.durable))
	msgs := append([]map[string]any{}, queued...)
	for key, payload := range s.durable {
		durableSnap[key] = payload
		msgs = append(msgs, payload)
	}

	resp := outboxPayload{Messages: msgs}
	if len(msgs) > 0 {
		resp.Token = uuid.NewString()
		s.unacked = &outboxBatch{token: resp.Token, queued: queued, durable: durableSnap}
	} else {
		s.unacked = nil
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.FromRequest(r).Err(err).Msg("failed to write outbox response")
	}
}

// handleOutboxAck drops the batch the edge confirms. A durable entry is
// deleted only when it still holds the payload that was served; a value
// superseded while the batch was outstanding stays for the next poll. Stale
// or unknown tokens are a no-op.
func (s *Server) handleOutboxAck(w http.ResponseWriter, r *http.Request) {
	var ack outboxAck
	if err := json.NewDecoder(r.Body).Decode(&ack); err != nil {
		logger.FromRequest(r).Err(err).Msg("invalid outbox ack body")
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if s.unacked != nil && s.unacked.token == ack.Token {
		for key, served := range s.unacked.durable {
			if current, ok := s.durable[key]; ok && reflect.DeepEqual(current, served) {
				delete(s.durable, key)
			}
		}
		s.unacked = nil
	}
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := s.logger.WithContext(r.Context())

		next.ServeHTTP(w, r.WithContext(ctx))

		s.logger.Debug().
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Dur("duration", time.Since(start)).
			Send()
	})
}

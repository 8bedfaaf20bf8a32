// Package web serves a small local dashboard mirroring the terminal UI:
// live market values with their classification labels and the journaled
// recommendation history, both over SSE.
package web

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/universiq/uvq/internal/domain"
	"github.com/universiq/uvq/internal/services/classifier"
)

const streamPollInterval = 3 * time.Second

type marketReader interface {
	Snapshot() *domain.MarketSnapshot
	FetchFailed() bool
	UpdatedAt() time.Time
}

type recommendationReader interface {
	EventsAfter(index uint64) ([]domain.RecommendationEventRecord, error)
}

// Server exposes HTTP endpoints serving the HTML UI and the SSE streams.
type Server struct {
	Addr   string
	Market marketReader
	Recs   recommendationReader
	Logger *zap.Logger
}

// NewServer creates a new web server instance.
func NewServer(addr string, market marketReader, recs recommendationReader, logger *zap.Logger) *Server {
	return &Server{Addr: addr, Market: market, Recs: recs, Logger: logger}
}

func (s *Server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/market/stream", s.handleMarketStream)
	mux.HandleFunc("/recommendations/stream", s.handleRecommendationStream)
	return mux
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartWithAutoTLS runs an HTTPS server with automatic certificates via
// ACME, plus an HTTP server on port 80 for the HTTP-01 challenges.
func (s *Server) StartWithAutoTLS(ctx context.Context, domains []string, cacheDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(domains) == 0 {
		return fmt.Errorf("no domains provided for automatic TLS")
	}
	if cacheDir == "" {
		cacheDir = "cert-cache"
	}

	manager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache(cacheDir),
	}

	httpSrv := &http.Server{
		Addr:              ":80",
		Handler:           manager.HTTPHandler(nil),
		ReadHeaderTimeout: 5 * time.Second,
	}

	tlsConfig := manager.TLSConfig()
	tlsConfig.MinVersion = tls.VersionTLS12

	httpsSrv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.mux(),
		ReadHeaderTimeout: 5 * time.Second,
		TLSConfig:         tlsConfig,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		_ = httpsSrv.Shutdown(shutdownCtx)
	}()

	errCh := make(chan error, 2)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()
	go func() {
		if err := httpsSrv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	return <-errCh
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

// marketPayload a snapshot together with the labels the dashboard shows.
type marketPayload struct {
	Snapshot    *domain.MarketSnapshot     `json:"snapshot"`
	FetchFailed bool                       `json:"fetch_failed"`
	UpdatedAt   time.Time                  `json:"updated_at"`
	Volatility  classifier.VolatilityLevel `json:"volatility_level"`
	Color       classifier.Color           `json:"volatility_color"`
	FeeStatus   string                     `json:"fee_status"`
	Timing      string                     `json:"timing"`
	Strategy    string                     `json:"strategy"`
}

func (s *Server) handleMarketStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	pollTicker := time.NewTicker(streamPollInterval)
	defer pollTicker.Stop()

	send := func() {
		snap := s.Market.Snapshot()
		payload := marketPayload{
			Snapshot:    snap,
			FetchFailed: s.Market.FetchFailed(),
			UpdatedAt:   s.Market.UpdatedAt(),
			Volatility:  classifier.Volatility(snap),
			Color:       classifier.VolatilityColor(snap),
			FeeStatus:   classifier.FeeStatus(snap),
			Timing:      classifier.Timing(snap),
			Strategy:    classifier.Strategy(snap),
		}
		data, err := json.Marshal(payload)
		if err != nil {
			s.Logger.Warn("failed to marshal market payload", zap.Error(err))
			return
		}
		fmt.Fprintf(w, "event: market\n")
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	send()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-pollTicker.C:
			send()
		}
	}
}

func (s *Server) handleRecommendationStream(w http.ResponseWriter, r *http.Request) {
	if s.Recs == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "recommendation journal not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// comment heartbeat every 30s so proxies keep the connection open
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(streamPollInterval)
	defer pollTicker.Stop()

	lastIndex := uint64(0)
	sendEvents := func() error {
		records, err := s.Recs.EventsAfter(lastIndex)
		if err != nil {
			return err
		}
		for _, record := range records {
			payload, err := json.Marshal(record.Event)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "event: recommendation\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = record.Index
		}
		return nil
	}

	if err := sendEvents(); err != nil {
		http.Error(w, "failed to load recommendations", http.StatusInternalServerError)
		s.Logger.Warn("recommendation stream initial load failed", zap.Error(err))
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendEvents(); err != nil {
				s.Logger.Warn("recommendation stream poll failed", zap.Error(err))
			}
		}
	}
}

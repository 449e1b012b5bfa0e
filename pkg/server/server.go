package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"time"

	"github.com/kacperjurak/golcrmeter/pkg/config"
	"github.com/kacperjurak/golcrmeter/pkg/handlers"
	"github.com/kacperjurak/golcrmeter/pkg/profiling"
	"github.com/kacperjurak/golcrmeter/pkg/webhook"
	"github.com/kacperjurak/golcrmeter/pkg/worker"
)

// Server is the HTTP front for the measurement solver: single and batch
// solve endpoints, worker pool, optional webhook publishing and
// profiling.
type Server struct {
	config       *config.Config
	serverConfig *config.ServerConfig
	workerPool   *worker.Pool
	httpServer   *http.Server
	profiler     *profiling.Profiler
	middleware   *profiling.Middleware
}

// Options holds configuration for creating a new server.
type Options struct {
	Config       *config.Config
	ServerConfig *config.ServerConfig
	Processor    worker.ProcessorFunc
}

// New creates a new server instance.
func New(opts Options) *Server {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.ServerConfig == nil {
		opts.ServerConfig = config.DefaultServerConfig()
	}

	var sender worker.WebhookSender
	if opts.ServerConfig.WebhookURL != "" {
		sender = webhook.NewClient(opts.ServerConfig.WebhookURL, opts.Config.Quiet)
	}

	workerPool := worker.New(worker.Options{
		Workers:   opts.ServerConfig.WorkerCount,
		Processor: opts.Processor,
		Sender:    sender,
	})

	server := &Server{
		config:       opts.Config,
		serverConfig: opts.ServerConfig,
		workerPool:   workerPool,
		profiler:     profiling.New(opts.ServerConfig),
		middleware:   profiling.NewMiddleware(opts.ServerConfig.EnableProfiling),
	}

	server.setupRoutes(opts.Processor)
	return server
}

func (s *Server) setupRoutes(processor worker.ProcessorFunc) {
	mux := http.NewServeMux()

	solveHandler := handlers.NewSolveHandler(s.config, s.workerPool, handlers.ProcessorFunc(processor))
	batchHandler := handlers.NewBatchHandler(s.config, s.workerPool)

	mux.Handle("/measurement", s.middleware.ProfiledHandler("measurement-single", solveHandler))
	mux.Handle("/measurement/batch", s.middleware.ProfiledHandler("measurement-batch", batchHandler))
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/debug/memory", s.memoryHandler)

	s.httpServer = &http.Server{
		Addr:         ":" + s.serverConfig.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// memoryHandler provides current memory statistics.
func (s *Server) memoryHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"timestamp":%q,"goroutines":%d,"alloc_mb":%.2f,"sys_mb":%.2f,"heap_objects":%d,"num_gc":%d}`,
		time.Now().Format(time.RFC3339),
		runtime.NumGoroutine(),
		float64(m.Alloc)/1024/1024,
		float64(m.Sys)/1024/1024,
		m.HeapObjects,
		m.NumGC)
}

// Start starts the HTTP server and blocks until it exits.
func (s *Server) Start() error {
	if err := s.profiler.Start(); err != nil {
		log.Printf("❌ Failed to start profiler: %v", err)
	}

	log.Println("🚀 Starting HTTP server on port", s.serverConfig.Port)
	log.Println("📡 Endpoints available:")
	log.Printf("  - Single: http://localhost:%s/measurement", s.serverConfig.Port)
	log.Printf("  - Batch:  http://localhost:%s/measurement/batch", s.serverConfig.Port)
	log.Printf("  - Health: http://localhost:%s/health", s.serverConfig.Port)
	log.Printf("  - Memory: http://localhost:%s/debug/memory", s.serverConfig.Port)

	return s.httpServer.ListenAndServe()
}

// Shutdown stops the server, the profiler and the worker pool.
func (s *Server) Shutdown() error {
	log.Println("🛑 Shutting down server...")

	if err := s.profiler.Stop(); err != nil {
		log.Printf("⚠️ Profiler shutdown error: %v", err)
	}

	s.workerPool.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("✅ Server shutdown complete")
	return nil
}

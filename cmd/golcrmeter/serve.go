package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kacperjurak/golcrmeter/internal/processing"
	"github.com/kacperjurak/golcrmeter/pkg/config"
	"github.com/kacperjurak/golcrmeter/pkg/server"
)

var srvCfg = config.DefaultServerConfig()

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP measurement service",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&srvCfg.Port, "port", srvCfg.Port, "HTTP listen port")
	f.IntVar(&srvCfg.WorkerCount, "workers", srvCfg.WorkerCount, "number of solve workers")
	f.StringVar(&srvCfg.WebhookURL, "webhook", srvCfg.WebhookURL, "URL to publish solved batch results to")
	f.BoolVar(&srvCfg.EnableProfiling, "profile", srvCfg.EnableProfiling, "enable pprof profiling server")
	f.StringVar(&srvCfg.ProfilingPort, "pprof-port", srvCfg.ProfilingPort, "pprof listen port")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	processor := processing.NewProcessor(cfg)

	srv := server.New(server.Options{
		Config:       cfg,
		ServerConfig: srvCfg,
		Processor:    processor.ProcessorFunc(),
	})

	setupGracefulShutdown(srv)

	if err := srv.Start(); err != nil {
		log.Printf("❌ Server exited: %v", err)
		return err
	}
	return nil
}

func setupGracefulShutdown(srv *server.Server) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("🛑 Received shutdown signal...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
		os.Exit(0)
	}()
}

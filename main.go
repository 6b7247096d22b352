package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/evkuzin/weatherdash/config"
	"github.com/evkuzin/weatherdash/network"
	"github.com/evkuzin/weatherdash/weather_station/impl"
	"github.com/gorilla/handlers"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the station config")
	flag.Parse()

	logger := &logrus.Logger{
		Out:          os.Stdout,
		Formatter:    &logrus.TextFormatter{},
		Hooks:        make(logrus.LevelHooks),
		Level:        logrus.InfoLevel,
		ReportCaller: true,
	}

	conf, err := config.NewConfig(*configPath)
	if err != nil {
		logger.Errorf("cannot load config: %s", err)
		os.Exit(1)
	}
	if level, err := logrus.ParseLevel(conf.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using info", conf.LogLevel)
	}

	wg := &sync.WaitGroup{}
	stop := make(chan struct{})
	ws := impl.NewWeatherStation(stop, wg)
	if err := ws.Init(conf, logger); err != nil {
		logger.Errorf("cannot init periph: %s", err)
		os.Exit(1)
	}

	if _, err := network.WaitForAssociation(conf.Network, logger); err != nil {
		logger.Errorf("cannot join %s: %s", conf.Network.SSID, err)
		os.Exit(1)
	}

	access := logger.WriterLevel(logrus.DebugLevel)
	defer access.Close()
	server := &http.Server{
		Handler:           handlers.LoggingHandler(access, ws),
		ReadHeaderTimeout: 5 * time.Second,
	}
	ln, err := net.Listen("tcp", conf.HTTP.Addr)
	if err != nil {
		logger.Errorf("Cannot start dashboard server. %v", err)
		os.Exit(1)
	}
	go func() {
		logger.Infof("Dashboard listening on %s", ln.Addr())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("dashboard server stopped: %v", err)
		}
	}()

	var metricsServer *http.Server
	if conf.Metrics.Addr != "" {
		metricsServer = &http.Server{
			Addr:              conf.Metrics.Addr,
			Handler:           ws.MetricsHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Infof("Metrics listening on %s", conf.Metrics.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warnf("Cannot start metrics server. %v", err)
			}
		}()
	}

	wg.Add(1)
	go ws.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Info("shutdown requested")
	close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Warnf("dashboard shutdown: %v", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.Warnf("metrics shutdown: %v", err)
		}
	}
	wg.Wait()
	logger.Info("all threads killed, shutdown...")
}

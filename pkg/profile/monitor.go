package profile

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-vault/pkg/loggers"
	"github.com/axiomesh/axiom-vault/pkg/repo"
)

// Monitor exposes the prometheus metrics over http
type Monitor struct {
	enable bool
	server *http.Server
	logger logrus.FieldLogger
}

func NewMonitor(config *repo.Config) (*Monitor, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Monitor{
		enable: config.Monitor.Enable,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.Port.Monitor),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: loggers.Logger(loggers.App),
	}, nil
}

func (m *Monitor) Start() error {
	if !m.enable {
		return nil
	}

	go func() {
		m.logger.WithField("addr", m.server.Addr).Info("Start monitor")
		if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.WithField("err", err).Error("Monitor service stopped")
		}
	}()
	return nil
}

func (m *Monitor) Stop() error {
	if !m.enable {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutdown monitor")
	}
	m.logger.Info("Monitor stopped")
	return nil
}

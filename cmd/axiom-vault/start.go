package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/axiomesh/axiom-vault/internal/app"
	"github.com/axiomesh/axiom-vault/pkg/loggers"
)

func start(ctx *cli.Context) error {
	axm, err := prepareApp(ctx, false)
	if err != nil {
		return err
	}

	log := loggers.Logger(loggers.App)
	printVersion(func(c string) {
		log.Info(c)
	})
	axm.Repo.PrintRepoInfo(func(c string) {
		log.Info(c)
	})

	var wg sync.WaitGroup
	wg.Add(1)
	handleShutdown(axm, &wg)

	if err := axm.Start(); err != nil {
		log.WithField("err", err).Error("Startup failed")
		return fmt.Errorf("start axiom-vault failed: %w", err)
	}

	wg.Wait()
	return nil
}

func handleShutdown(node *app.AxiomVault, wg *sync.WaitGroup) {
	var stop = make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGTERM)
	signal.Notify(stop, syscall.SIGINT)

	go func() {
		<-stop
		fmt.Println("received interrupt signal, shutting down...")
		if err := node.Stop(); err != nil {
			fmt.Println(err)
		}
		wg.Done()
	}()
}

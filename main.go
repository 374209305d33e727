package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"substrate-discord-bot/bot"
	"substrate-discord-bot/config"
	"substrate-discord-bot/logger"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// loadConfig loads the config from the provided yaml
// files over the default configuration, panics on error
func loadConfig(configFiles []string) *bot.Configuration {
	configuration := bot.DefaultConfiguration()
	err := config.LoadAndValidateConfiguration(configFiles, &configuration)
	if err != nil {
		log.Panic(err)
	}
	return &configuration
}

// newSink creates the console sink the gateway and command
// messages are written to.
func newSink(configuration *bot.Configuration) *logger.ConsoleLogger {
	l := log.New()
	l.SetLevel(configuration.LogLevel)
	l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return logger.NewConsoleLogger(l, configuration.Logger.QueueSize)
}

func main() {
	configFileParam := flag.String(
		"configFiles",
		"config.yml",
		"Comma separated files with configuration",
	)
	flag.Parse()
	log.SetLevel(log.TraceLevel)

	configuration := loadConfig(strings.Split(*configFileParam, ","))
	log.SetLevel(configuration.LogLevel)

	sink := newSink(configuration)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	shutdownSignal := make(chan os.Signal, 2)
	signal.Notify(shutdownSignal, syscall.SIGTERM, syscall.SIGINT)

	g, ctx := errgroup.WithContext(ctx)
	b := bot.NewBot(ctx, configuration, sink)

	g.Go(func() error {
		select {
		case <-shutdownSignal:
		case <-ctx.Done():
			return nil
		}
		// graceful shutdown
		log.Println()
		log.Warn("Shutdown requested ...")
		cancel()
		go func() {
			<-time.After(time.Second * 10)
			log.Fatal("Forced shutdown")
		}()
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return b.Run()
	})

	err := g.Wait()
	sink.Close()
	if err != nil {
		log.Fatal(err)
	}
	log.Print("Clean Shutdown")
}

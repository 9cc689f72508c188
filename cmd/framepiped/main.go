package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/tacusci/logging/v2"
	"github.com/takama/daemon"
	"github.com/tauraamui/framepipe/pkg/config"
	"github.com/tauraamui/framepipe/pkg/configdef"
	db "github.com/tauraamui/framepipe/pkg/database"
	"github.com/tauraamui/framepipe/pkg/log"
)

const (
	name        = "framepipe"
	description = "Frame pipeline daemon which synthesises frames and hands them to a render loop"
)

type Service struct {
	daemon.Daemon
}

// Setup writes the default config and creates the session journal.
func (service *Service) Setup() (string, error) {
	log.Info("Setting up framepipe service...")

	err := config.DefaultCreator().Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	err = db.Setup()
	if err != nil {
		if !errors.Is(err, db.ErrDBAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	return "Setup successful...", nil
}

func (service *Service) RemoveSetup() (string, error) {
	log.Info("Removing setup for framepipe service...")
	if err := config.DefaultDestroyer().Destroy(); err != nil {
		log.Error("unable to delete config file: %s", err.Error())
	}

	if err := db.Destroy(); err != nil {
		log.Error("unable to delete database file: %s", err.Error())
	}

	return "Removing setup successful...", nil
}

func (service *Service) Manage() (string, error) {
	usage := "Usage: framepiped setup | remove-setup | install | remove | start | stop | status"

	if len(os.Args) > 1 {
		command := os.Args[1]
		switch command {
		case "setup":
			return service.Setup()
		case "remove-setup":
			return service.RemoveSetup()
		case "install":
			return service.Install()
		case "remove":
			return service.Remove()
		case "start":
			return service.Start()
		case "stop":
			return service.Stop()
		case "status":
			return service.Status()
		default:
			return usage, nil
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	log.Info("Starting frame pipeline daemon...")

	values, err := config.DefaultResolver().Resolve()
	if err != nil {
		return "", err
	}
	if values.Debug {
		log.SetLevel("debug")
	}

	r, err := startRunner(values, openRecorder())
	if err != nil {
		return "", err
	}

	select {
	case killSignal := <-interrupt:
		fmt.Print("\r")
		log.Error("Received signal: %s", killSignal)
	case <-r.renderDone:
		log.Warn("Render loop exited, shutting down...")
	}

	if err := r.shutdown(); err != nil {
		return "", err
	}

	return "Shutdown successful... BYE! 👋", nil
}

func init() {
	logging.CallbackLabelLevel = 5
	logging.ColorLogLevelLabelOnly = true
	log.SetLevel(os.Getenv("FRAMEPIPE_LOGGING_LEVEL"))
}

func main() {
	daemonType := daemon.SystemDaemon
	if runtime.GOOS == "darwin" {
		daemonType = daemon.UserAgent
	}

	srv, err := daemon.New(name, description, daemonType)
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	service := &Service{srv}
	status, err := service.Manage()
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	logging.Info(status) //nolint
}

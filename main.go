package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Jdurairaj-hub/wizardvm/api"
	"github.com/Jdurairaj-hub/wizardvm/asm"
	"github.com/Jdurairaj-hub/wizardvm/config"
	"github.com/Jdurairaj-hub/wizardvm/vm"
)

// wizard 0 heals by the mean of its agility and wisdom, then both wizards
// celebrate
const demoProgram = `
LITERAL 0
LITERAL 0 GET_HEALTH
LITERAL 0 GET_AGILITY
LITERAL 0 GET_WISDOM
ADD
LITERAL 2 DIVIDE
ADD
SET_HEALTH
LITERAL 0 PLAY_SOUND
LITERAL 1 SPAWN_PARTICLES
`

type options struct {
	configPath string
	program    string
	file       string
	serve      bool
	listen     string
	seed       int64
	logLevel   string
}

func parseOptions() options {
	var o options
	flag.StringVarP(&o.configPath, "config", "c", "", "Path to a wizardvm.toml configuration file.")
	flag.StringVarP(&o.program, "program", "p", "", "Program source to execute, e.g. \"LITERAL 1 LITERAL 2 ADD\".")
	flag.StringVarP(&o.file, "file", "f", "", "File containing program source to execute.")
	flag.BoolVar(&o.serve, "serve", false, "Serve the HTTP API instead of executing a program.")
	flag.StringVar(&o.listen, "listen", "", "API listen address. Overrides the configuration file.")
	flag.Int64Var(&o.seed, "seed", 0, "Seed for random wizards. Zero means time based.")
	flag.StringVar(&o.logLevel, "log-level", "", "Logging level: debug, info, warn, error. Overrides the configuration file.")
	flag.Parse()
	return o
}

func main() {
	o := parseOptions()

	cfg, err := loadConfig(o)
	if err != nil {
		log.Fatalf("%s", err)
	}

	l, err := cfg.Logger()
	if err != nil {
		log.Fatalf("%s", err)
	}
	defer func() { _ = l.Sync() }()
	zap.ReplaceGlobals(l)

	vmOpts, err := cfg.VMOpts()
	if err != nil {
		l.Fatal("invalid configuration", zap.Error(err))
	}
	machine, err := vm.NewVM(append(vmOpts, vm.LoggerOpt(l))...)
	if err != nil {
		l.Fatal("create machine", zap.Error(err))
	}
	logWizards(l, machine)

	if o.serve {
		if err := serve(l, cfg, machine); err != nil {
			l.Fatal("api server", zap.Error(err))
		}
		return
	}

	if err := runProgram(l, machine, o); err != nil {
		exit(l, 1)
	}
}

var osExit = os.Exit

// exit flushes l first; deferred calls do not run on os.Exit.
func exit(l *zap.Logger, code int) {
	_ = l.Sync()
	osExit(code)
}

func runProgram(l *zap.Logger, machine *vm.VM, o options) error {
	src, err := programSource(o)
	if err != nil {
		l.Error("read program", zap.Error(err))
		return err
	}
	program, err := asm.Assemble(src)
	if err != nil {
		l.Error("assemble program", zap.Error(err))
		return err
	}

	if err := machine.Execute(program); err != nil {
		l.Error("execution halted",
			zap.Stringer("kind", vm.KindOf(err)),
			zap.Error(err))
		return err
	}
	l.Info("execution finished",
		zap.Int("steps", machine.Steps()),
		zap.Int32s("stack", machine.Stack()))
	logWizards(l, machine)
	return nil
}

func loadConfig(o options) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		cfg, err = config.Load(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.listen != "" {
		cfg.API.Listen = o.listen
	}
	if o.seed != 0 {
		cfg.Random.Seed = o.seed
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func programSource(o options) (string, error) {
	switch {
	case o.program != "" && o.file != "":
		return "", errors.New("--program and --file are mutually exclusive")
	case o.program != "":
		return o.program, nil
	case o.file != "":
		data, err := os.ReadFile(o.file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return demoProgram, nil
}

func serve(l *zap.Logger, cfg config.Config, machine *vm.VM) error {
	srv, err := api.NewServer(api.ServerConfig{
		ListenerAddr: cfg.API.Listen,
		Logger:       l,
	}, machine)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func logWizards(l *zap.Logger, machine *vm.VM) {
	for i, w := range machine.Wizards() {
		l.Info("wizard",
			zap.Int("id", i),
			zap.Int32("health", w.Health),
			zap.Int32("wisdom", w.Wisdom),
			zap.Int32("agility", w.Agility))
	}
}

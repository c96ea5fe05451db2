package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/ccoveille/go-safecast"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Jdurairaj-hub/wizardvm/asm"
	"github.com/Jdurairaj-hub/wizardvm/vm"
)

type ServerConfig struct {
	ListenerAddr string
	Logger       *zap.Logger
}

type Server struct {
	ServerConfig

	// the machine runs one program at a time
	mu      sync.Mutex
	machine *vm.VM

	echo   *echo.Echo
	logger *zap.Logger
}

func NewServer(config ServerConfig, machine *vm.VM) (*Server, error) {
	if machine == nil {
		return nil, fmt.Errorf("new api server: nil machine")
	}
	if config.Logger == nil {
		config.Logger, _ = zap.NewDevelopment()
	}
	s := &Server{
		ServerConfig: config,
		machine:      machine,
		logger:       config.Logger.Named("api"),
	}

	echoer := echo.New()
	echoer.HideBanner = true
	echoer.HidePort = true

	echoer.POST("/execute", s.handleExecute)
	echoer.GET("/stack", s.handleGetStack)
	echoer.GET("/wizards", s.handleGetWizards)
	echoer.GET("/wizards/:id", s.handleGetWizard)
	echoer.PUT("/wizards/:id", s.handlePutWizard)
	echoer.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo = echoer
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks until the server stops. It returns http.ErrServerClosed after
// Shutdown.
func (s *Server) Start() error {
	s.logger.Info("api server starting",
		zap.String("addr", s.ListenerAddr))
	return s.echo.Start(s.ListenerAddr)
}

// Addr is the bound listener address, or nil before Start has bound it.
func (s *Server) Addr() net.Addr {
	return s.echo.ListenerAddr()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("api server stopping")
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleExecute(ectx echo.Context) error {
	var req ExecuteRequest
	if err := ectx.Bind(&req); err != nil {
		return ectx.JSON(http.StatusBadRequest,
			map[string]any{
				"error": err.Error(),
			})
	}

	program, err := req.bytecode()
	if err != nil {
		return ectx.JSON(http.StatusBadRequest,
			map[string]any{
				"error": err.Error(),
			})
	}

	s.mu.Lock()
	execErr := s.machine.Execute(program)
	resp := ExecuteResponse{
		Status:  s.machine.Status().String(),
		Stack:   s.machine.Stack(),
		Wizards: s.wizards(),
		Steps:   s.machine.Steps(),
	}
	s.mu.Unlock()

	observeExecution(len(program), resp.Steps, execErr)

	if execErr != nil {
		resp.Error = execErr.Error()
		resp.Kind = vm.KindOf(execErr).String()
		if pc, ok := vm.ErrorProgramCounter(execErr); ok {
			resp.PC = &pc
		}
		s.logger.Info("program halted",
			zap.Int("words", len(program)),
			zap.String("kind", resp.Kind),
			zap.Error(execErr))
		return ectx.JSON(http.StatusUnprocessableEntity, resp)
	}

	s.logger.Debug("program executed",
		zap.Int("words", len(program)),
		zap.Int("steps", resp.Steps))
	return ectx.JSON(http.StatusOK, resp)
}

func (req ExecuteRequest) bytecode() ([]int32, error) {
	if req.Source != "" {
		if len(req.Program) > 0 {
			return nil, fmt.Errorf("set either program or source, not both")
		}
		return asm.Assemble(req.Source)
	}

	program := make([]int32, len(req.Program))
	for i, word := range req.Program {
		v, err := safecast.ToInt32(word)
		if err != nil {
			return nil, fmt.Errorf("program[%d]: %w", i, err)
		}
		program[i] = v
	}
	return program, nil
}

func (s *Server) handleGetStack(ectx echo.Context) error {
	s.mu.Lock()
	resp := StackResponse{
		Status: s.machine.Status().String(),
		Stack:  s.machine.Stack(),
	}
	s.mu.Unlock()

	return ectx.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetWizards(ectx echo.Context) error {
	s.mu.Lock()
	wizards := s.wizards()
	s.mu.Unlock()

	return ectx.JSON(http.StatusOK,
		map[string]any{
			"wizards": wizards,
		})
}

func (s *Server) handleGetWizard(ectx echo.Context) error {
	id, err := wizardID(ectx)
	if err != nil {
		return ectx.JSON(http.StatusBadRequest,
			map[string]any{
				"error": err.Error(),
			})
	}

	s.mu.Lock()
	w, err := s.machine.Wizard(id)
	s.mu.Unlock()
	if err != nil {
		return ectx.JSON(http.StatusNotFound,
			map[string]any{
				"error": err.Error(),
				"kind":  vm.KindOf(err).String(),
			})
	}

	return ectx.JSON(http.StatusOK, w)
}

func (s *Server) handlePutWizard(ectx echo.Context) error {
	id, err := wizardID(ectx)
	if err != nil {
		return ectx.JSON(http.StatusBadRequest,
			map[string]any{
				"error": err.Error(),
			})
	}

	var update WizardUpdate
	if err := ectx.Bind(&update); err != nil {
		return ectx.JSON(http.StatusBadRequest,
			map[string]any{
				"error": err.Error(),
			})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// validate the id before touching any attribute
	if _, err := s.machine.Wizard(id); err != nil {
		return ectx.JSON(http.StatusNotFound,
			map[string]any{
				"error": err.Error(),
				"kind":  vm.KindOf(err).String(),
			})
	}
	for attr, v := range update.attributes() {
		if err := s.machine.SetAttribute(id, attr, v); err != nil {
			return ectx.JSON(http.StatusInternalServerError,
				map[string]any{
					"error": err.Error(),
				})
		}
	}
	w, _ := s.machine.Wizard(id)

	s.logger.Debug("wizard updated",
		zap.Int32("wizard", id),
		zap.Any("state", w))
	return ectx.JSON(http.StatusOK, w)
}

func wizardID(ectx echo.Context) (int32, error) {
	val := ectx.Param("id")
	id, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid wizard id %q", val)
	}
	return int32(id), nil
}

// callers hold s.mu
func (s *Server) wizards() []vm.Wizard {
	all := s.machine.Wizards()
	return all[:]
}

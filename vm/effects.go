package vm

import "go.uber.org/zap"

// Effects is the audio/visual collaborator behind PLAY_SOUND and
// SPAWN_PARTICLES. Its failures are logged by the machine and never halt it.
type Effects interface {
	PlaySound(id ActorID) error
	SpawnParticles(id ActorID) error
}

type LogEffects struct {
	logger *zap.Logger
}

func NewLogEffects(l *zap.Logger) *LogEffects {
	if l == nil {
		l = zap.L()
	}
	return &LogEffects{
		logger: l.Named("effects"),
	}
}

func (e *LogEffects) PlaySound(id ActorID) error {
	e.logger.Info("playing sound", zap.Int32("wizard", int32(id)))
	return nil
}

func (e *LogEffects) SpawnParticles(id ActorID) error {
	e.logger.Info("spawning particles", zap.Int32("wizard", int32(id)))
	return nil
}

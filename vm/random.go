package vm

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

const (
	DefaultMinAttribute int32 = 3
	DefaultMaxAttribute int32 = 32
)

// RandomSource is satisfied by *math/rand.Rand.
type RandomSource interface {
	Int31n(n int32) int32
}

func NewRandomSource(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed))
}

func defaultRandomSource() RandomSource {
	return NewRandomSource(time.Now().UnixNano())
}

// RandomWizard draws every attribute uniformly from [min, max].
func RandomWizard(src RandomSource, min, max int32) Wizard {
	return Wizard{
		Health:  randomInt(src, min, max),
		Wisdom:  randomInt(src, min, max),
		Agility: randomInt(src, min, max),
	}
}

func randomInt(src RandomSource, min, max int32) int32 {
	return min + src.Int31n(max-min+1)
}

// ValidateRandomRange reports whether [min, max] can seed random wizards.
func ValidateRandomRange(min, max int32) error {
	if min > max {
		return fmt.Errorf("invalid random range: min %d > max %d", min, max)
	}
	if int64(max)-int64(min)+1 > math.MaxInt32 {
		return fmt.Errorf("invalid random range: [%d, %d] is wider than %d", min, max, math.MaxInt32)
	}
	return nil
}

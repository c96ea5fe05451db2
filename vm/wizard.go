package vm

import "fmt"

type Wizard struct {
	Health  int32 `json:"health"`
	Wisdom  int32 `json:"wisdom"`
	Agility int32 `json:"agility"`
}

type Attribute int

const (
	AttributeHealth Attribute = iota
	AttributeWisdom
	AttributeAgility
)

func (a Attribute) String() string {
	switch a {
	case AttributeHealth:
		return "health"
	case AttributeWisdom:
		return "wisdom"
	case AttributeAgility:
		return "agility"
	}
	return fmt.Sprintf("Attribute(%d)", int(a))
}

type Action int

const (
	ActionPlaySound Action = iota
	ActionSpawnParticles
)

func (a Action) String() string {
	switch a {
	case ActionPlaySound:
		return "play sound"
	case ActionSpawnParticles:
		return "spawn particles"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

func (w *Wizard) get(a Attribute) (int32, error) {
	switch a {
	case AttributeHealth:
		return w.Health, nil
	case AttributeWisdom:
		return w.Wisdom, nil
	case AttributeAgility:
		return w.Agility, nil
	}
	return 0, fmt.Errorf("unknown attribute %s", a)
}

// values are stored as given, no clamping
func (w *Wizard) set(a Attribute, v int32) error {
	switch a {
	case AttributeHealth:
		w.Health = v
	case AttributeWisdom:
		w.Wisdom = v
	case AttributeAgility:
		w.Agility = v
	default:
		return fmt.Errorf("unknown attribute %s", a)
	}
	return nil
}

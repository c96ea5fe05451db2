package api

import (
	"strings"

	"github.com/Jdurairaj-hub/wizardvm/vm"
)

// ExecuteRequest carries either raw bytecode or assembler source.
type ExecuteRequest struct {
	Program []int64 `json:"program,omitempty"`
	Source  string  `json:"source,omitempty"`
}

type ExecuteResponse struct {
	Status  string      `json:"status"`
	Stack   []int32     `json:"stack"`
	Wizards []vm.Wizard `json:"wizards"`
	Steps   int         `json:"steps"`

	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
	PC    *int   `json:"pc,omitempty"`
}

type StackResponse struct {
	Status string  `json:"status"`
	Stack  []int32 `json:"stack"`
}

// WizardUpdate sets only the attributes that are present.
type WizardUpdate struct {
	Health  *int32 `json:"health,omitempty"`
	Wisdom  *int32 `json:"wisdom,omitempty"`
	Agility *int32 `json:"agility,omitempty"`
}

func (u WizardUpdate) attributes() map[vm.Attribute]int32 {
	out := make(map[vm.Attribute]int32)
	if u.Health != nil {
		out[vm.AttributeHealth] = *u.Health
	}
	if u.Wisdom != nil {
		out[vm.AttributeWisdom] = *u.Wisdom
	}
	if u.Agility != nil {
		out[vm.AttributeAgility] = *u.Agility
	}
	return out
}

func outcomeLabel(err error) string {
	return strings.ReplaceAll(vm.KindOf(err).String(), " ", "_")
}

package vm

const NumWizards = 2

// ActorID addresses one of the registry's wizards. Values are only produced
// by ParseActorID so they are always in range.
type ActorID int32

func ParseActorID(v int32) (ActorID, error) {
	if v < 0 || v >= NumWizards {
		return 0, InvalidActorID.Errorf("wizard %d out of range [0, %d)", v, NumWizards)
	}
	return ActorID(v), nil
}

// Registry holds the machine's wizards. It outlives individual executions.
type Registry struct {
	wizards [NumWizards]Wizard
}

func NewRegistry(first, second Wizard) *Registry {
	return &Registry{
		wizards: [NumWizards]Wizard{first, second},
	}
}

func RandomRegistry(src RandomSource, min, max int32) *Registry {
	return NewRegistry(
		RandomWizard(src, min, max),
		RandomWizard(src, min, max),
	)
}

func (r *Registry) Get(id int32, a Attribute) (int32, error) {
	w, err := r.lookup(id)
	if err != nil {
		return 0, err
	}
	return w.get(a)
}

func (r *Registry) Set(id int32, a Attribute, v int32) error {
	w, err := r.lookup(id)
	if err != nil {
		return err
	}
	return w.set(a, v)
}

func (r *Registry) Wizard(id int32) (Wizard, error) {
	w, err := r.lookup(id)
	if err != nil {
		return Wizard{}, err
	}
	return *w, nil
}

func (r *Registry) Wizards() [NumWizards]Wizard {
	return r.wizards
}

func (r *Registry) lookup(id int32) (*Wizard, error) {
	actor, err := ParseActorID(id)
	if err != nil {
		return nil, err
	}
	return &r.wizards[actor], nil
}

package game

// EffectKind represents a transient modifier attached to a ship.
type EffectKind int

const (
	EffectAttackBuff EffectKind = iota
	EffectDefenseBuff
	EffectImmobile
)

// String returns the effect name.
func (k EffectKind) String() string {
	switch k {
	case EffectAttackBuff:
		return "Attack Buff"
	case EffectDefenseBuff:
		return "Defense Buff"
	case EffectImmobile:
		return "Immobile"
	default:
		return "Unknown"
	}
}

// Effect modifies a ship's behavior for a bounded number of turns.
// Percent is a multiplicative magnitude for buff kinds (150 = x1.5) and
// ignored for Immobile.
type Effect struct {
	Kind         EffectKind `json:"kind"`
	Percent      int        `json:"percent,omitempty"`
	Duration     int        `json:"duration"`
	SourceShipID string     `json:"sourceShipId,omitempty"`
}

// AddEffect attaches an effect to the ship.
func (s *Ship) AddEffect(e Effect) {
	s.Effects = append(s.Effects, e)
}

// TickEffects decrements every effect's duration by one and drops any
// effect that has expired. Called once per full turn cycle for the
// owning player's ships.
func (s *Ship) TickEffects() {
	if len(s.Effects) == 0 {
		return
	}
	kept := s.Effects[:0]
	for _, e := range s.Effects {
		e.Duration--
		if e.Duration > 0 {
			kept = append(kept, e)
		}
	}
	s.Effects = kept
	if len(s.Effects) == 0 {
		s.Effects = nil
	}
}

// EffectiveAttack folds attack buffs multiplicatively over base attack.
func (s *Ship) EffectiveAttack() int {
	attack := s.Type.BaseStats().Attack
	for _, e := range s.Effects {
		if e.Kind == EffectAttackBuff {
			attack = attack * e.Percent / 100
		}
	}
	return attack
}

// EffectiveDefense folds defense buffs multiplicatively over base defense.
func (s *Ship) EffectiveDefense() int {
	defense := s.Type.BaseStats().Defense
	for _, e := range s.Effects {
		if e.Kind == EffectDefenseBuff {
			defense = defense * e.Percent / 100
		}
	}
	return defense
}

// Mobile reports whether no active effect pins the ship in place.
func (s *Ship) Mobile() bool {
	for _, e := range s.Effects {
		if e.Kind == EffectImmobile {
			return false
		}
	}
	return true
}

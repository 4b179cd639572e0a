package game

// ResourceType represents a type of resource.
type ResourceType int

const (
	ResourceGold ResourceType = iota
	ResourceCrew
	ResourceCannons
	ResourceSupplies
	ResourceWood
	ResourceRum
)

// resourceOrder fixes the iteration order used when reporting the first
// unmet line of a cost. Keep in sync with the ResourceType constants.
var resourceOrder = []ResourceType{
	ResourceGold,
	ResourceCrew,
	ResourceCannons,
	ResourceSupplies,
	ResourceWood,
	ResourceRum,
}

// String returns the resource name.
func (r ResourceType) String() string {
	switch r {
	case ResourceGold:
		return "Gold"
	case ResourceCrew:
		return "Crew"
	case ResourceCannons:
		return "Cannons"
	case ResourceSupplies:
		return "Supplies"
	case ResourceWood:
		return "Wood"
	case ResourceRum:
		return "Rum"
	default:
		return "Unknown"
	}
}

// Resources is a record of non-negative counters. The same type serves as
// a player's stockpile, a tile yield, and a build or ability cost.
type Resources struct {
	Gold     int `json:"gold"`
	Crew     int `json:"crew"`
	Cannons  int `json:"cannons"`
	Supplies int `json:"supplies"`
	Wood     int `json:"wood"`
	Rum      int `json:"rum"`
}

// Get returns the amount of a resource.
func (r *Resources) Get(kind ResourceType) int {
	switch kind {
	case ResourceGold:
		return r.Gold
	case ResourceCrew:
		return r.Crew
	case ResourceCannons:
		return r.Cannons
	case ResourceSupplies:
		return r.Supplies
	case ResourceWood:
		return r.Wood
	case ResourceRum:
		return r.Rum
	default:
		return 0
	}
}

// Add adds an amount of one resource.
func (r *Resources) Add(kind ResourceType, amount int) {
	switch kind {
	case ResourceGold:
		r.Gold += amount
	case ResourceCrew:
		r.Crew += amount
	case ResourceCannons:
		r.Cannons += amount
	case ResourceSupplies:
		r.Supplies += amount
	case ResourceWood:
		r.Wood += amount
	case ResourceRum:
		r.Rum += amount
	}
}

// AddAll adds every counter of other to r.
func (r *Resources) AddAll(other Resources) {
	r.Gold += other.Gold
	r.Crew += other.Crew
	r.Cannons += other.Cannons
	r.Supplies += other.Supplies
	r.Wood += other.Wood
	r.Rum += other.Rum
}

// CanAfford checks whether every counter covers the cost.
func (r *Resources) CanAfford(cost Resources) bool {
	return r.Gold >= cost.Gold &&
		r.Crew >= cost.Crew &&
		r.Cannons >= cost.Cannons &&
		r.Supplies >= cost.Supplies &&
		r.Wood >= cost.Wood &&
		r.Rum >= cost.Rum
}

// FirstShortfall returns the first cost line, in fixed resource order,
// that the stockpile cannot cover. ok is false when the cost is fully
// affordable.
func (r *Resources) FirstShortfall(cost Resources) (kind ResourceType, needed, have int, ok bool) {
	for _, k := range resourceOrder {
		need := cost.Get(k)
		if need > 0 && r.Get(k) < need {
			return k, need, r.Get(k), true
		}
	}
	return 0, 0, 0, false
}

// Spend removes a cost from the stockpile. Returns false and leaves the
// stockpile untouched if any counter would go negative.
func (r *Resources) Spend(cost Resources) bool {
	if !r.CanAfford(cost) {
		return false
	}
	r.Gold -= cost.Gold
	r.Crew -= cost.Crew
	r.Cannons -= cost.Cannons
	r.Supplies -= cost.Supplies
	r.Wood -= cost.Wood
	r.Rum -= cost.Rum
	return true
}

// Total returns the aggregate across all counters. Used by the economic
// win condition.
func (r *Resources) Total() int {
	return r.Gold + r.Crew + r.Cannons + r.Supplies + r.Wood + r.Rum
}

// Scale multiplies every counter by a percentage factor (100 leaves the
// record unchanged), rounding down. Used for collection multipliers and
// weather.
func (r Resources) Scale(percent int) Resources {
	return Resources{
		Gold:     r.Gold * percent / 100,
		Crew:     r.Crew * percent / 100,
		Cannons:  r.Cannons * percent / 100,
		Supplies: r.Supplies * percent / 100,
		Wood:     r.Wood * percent / 100,
		Rum:      r.Rum * percent / 100,
	}
}

// Clone creates a copy of the record.
func (r *Resources) Clone() Resources {
	return *r
}

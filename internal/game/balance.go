package game

// Balance collects the tunable numbers most likely to change between
// deployments. The zero value is not usable; construct with
// DefaultBalance and override fields from configuration.
type Balance struct {
	StartingResources   Resources `json:"startingResources" yaml:"starting_resources"`
	WinTerritoryPercent int       `json:"winTerritoryPercent" yaml:"win_territory_percent"`
	WinFleetPercent     int       `json:"winFleetPercent" yaml:"win_fleet_percent"`
	WinResourceTotal    int       `json:"winResourceTotal" yaml:"win_resource_total"`

	// TurnTimeoutSeconds is stored and surfaced to clients; the engine
	// itself never enforces it with timers.
	TurnTimeoutSeconds int `json:"turnTimeoutSeconds" yaml:"turn_timeout_seconds"`
}

// DefaultBalance returns the standard rule set.
func DefaultBalance() Balance {
	return Balance{
		StartingResources: Resources{
			Gold:     1000,
			Crew:     50,
			Cannons:  20,
			Supplies: 100,
			Wood:     60,
			Rum:      10,
		},
		WinTerritoryPercent: 60,
		WinFleetPercent:     80,
		WinResourceTotal:    15000,
		TurnTimeoutSeconds:  45,
	}
}

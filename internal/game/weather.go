package game

// WeatherKind represents the sea conditions affecting all players.
type WeatherKind int

const (
	WeatherCalm WeatherKind = iota
	WeatherTradeWinds
	WeatherStorm
	WeatherFog
)

// String returns the weather name.
func (k WeatherKind) String() string {
	switch k {
	case WeatherCalm:
		return "Calm"
	case WeatherTradeWinds:
		return "Trade Winds"
	case WeatherStorm:
		return "Storm"
	case WeatherFog:
		return "Fog"
	default:
		return "Unknown"
	}
}

// MovementPercent scales every ship's movement allowance.
func (k WeatherKind) MovementPercent() int {
	switch k {
	case WeatherTradeWinds:
		return 150
	case WeatherStorm:
		return 50
	default:
		return 100
	}
}

// DamagePercent scales attack and ability damage.
func (k WeatherKind) DamagePercent() int {
	switch k {
	case WeatherStorm:
		return 125
	case WeatherFog:
		return 75
	default:
		return 100
	}
}

// ResourcePercent scales resource collection yields.
func (k WeatherKind) ResourcePercent() int {
	switch k {
	case WeatherTradeWinds:
		return 125
	case WeatherStorm:
		return 75
	default:
		return 100
	}
}

// BaseDuration returns how many full turn cycles a fresh spell lasts.
func (k WeatherKind) BaseDuration() int {
	switch k {
	case WeatherTradeWinds, WeatherFog:
		return 3
	default:
		return 2
	}
}

// Weather is the current spell and how long it has left.
type Weather struct {
	Kind     WeatherKind `json:"kind"`
	Duration int         `json:"duration"`
}

// advanceWeather ages the current spell by one cycle and rolls a fresh
// one from the game's rng stream once it expires. Called only when the
// turn order wraps back to the first player.
func (g *State) advanceWeather() {
	if g.Weather.Duration > 0 {
		g.Weather.Duration--
	}
	if g.Weather.Duration <= 0 {
		kind := WeatherKind(g.nextRand(4))
		g.Weather = Weather{Kind: kind, Duration: kind.BaseDuration()}
		g.appendEvent(Event{
			Type:   EventWeatherChanged,
			Amount: g.Weather.Duration,
			Note:   kind.String(),
		})
	}
}

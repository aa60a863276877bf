package stylist

type Config struct {
	// MaxOutfits caps the candidates returned per request.
	MaxOutfits int
	// HistoryLimit is how many saved outfits are read for novelty.
	HistoryLimit int
	// TurnLimit is how many conversation turns are forwarded upstream.
	TurnLimit int
	// RepeatThreshold is the overlap at which a candidate is annotated as a
	// likely repeat.
	RepeatThreshold float64
}

func DefaultConfig() Config {
	return Config{
		MaxOutfits:      3,
		HistoryLimit:    10,
		TurnLimit:       10,
		RepeatThreshold: 0.75,
	}
}

// withDefaults fills zero or out of range fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxOutfits <= 0 {
		c.MaxOutfits = d.MaxOutfits
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = d.HistoryLimit
	}
	if c.TurnLimit <= 0 {
		c.TurnLimit = d.TurnLimit
	}
	if c.RepeatThreshold <= 0 || c.RepeatThreshold > 1 {
		c.RepeatThreshold = d.RepeatThreshold
	}
	return c
}

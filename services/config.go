package services

import "wardrobeapi/stylist"

// StylistConfigFromEnv overrides stylist.DefaultConfig from the environment.
// Malformed values keep the default.
func StylistConfigFromEnv() stylist.Config {
	c := stylist.DefaultConfig()
	c.MaxOutfits = GetEnvInt("STYLIST_MAX_OUTFITS", c.MaxOutfits)
	c.HistoryLimit = GetEnvInt("STYLIST_HISTORY_LIMIT", c.HistoryLimit)
	c.TurnLimit = GetEnvInt("STYLIST_TURN_LIMIT", c.TurnLimit)
	c.RepeatThreshold = GetEnvFloat("STYLIST_REPEAT_THRESHOLD", c.RepeatThreshold)
	return c
}

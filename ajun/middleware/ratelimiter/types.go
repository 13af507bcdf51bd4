package ratelimiter

import "time"

type ClientIPData struct {
	Count        int       `json:"count"`
	WindowStart  time.Time `json:"window_start"`
	LastSeen     time.Time `json:"last_seen"`
	DisableUntil time.Time `json:"disable_until"`
}

func (d *ClientIPData) blocked(now time.Time) bool {
	return d.DisableUntil.After(now)
}

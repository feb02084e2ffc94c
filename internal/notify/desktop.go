// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package notify

import (
	"log"

	"github.com/gen2brain/beeep"
)

// Desktop raises OS-level alerts for degraded parse runs. Disabled on
// headless deployments via config.
type Desktop struct {
	enabled bool
}

// NewDesktop creates a desktop notifier.
func NewDesktop(enabled bool) *Desktop {
	return &Desktop{enabled: enabled}
}

// Alert shows a desktop notification. Failures are logged, never fatal:
// a missing notification daemon must not affect the run itself.
func (d *Desktop) Alert(title, message string) {
	if !d.enabled {
		return
	}
	if err := beeep.Alert(title, message, ""); err != nil {
		log.Printf("Desktop alert failed: %v", err)
	}
}

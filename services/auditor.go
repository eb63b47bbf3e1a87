package services

import (
	"log"
	"time"
)

// StartStockAuditor sweeps the catalog on a fixed interval in its own
// goroutine, independent of request handling. The returned stop function
// ends the sweep loop.
func StartStockAuditor(inventory InventoryService, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := inventory.AuditAll(); err != nil {
					log.Println("Stock audit failed:", err)
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}

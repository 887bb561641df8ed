package server

import (
	"time"

	"pigdevice/src/helpers"
	"pigdevice/src/models"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// joinRequest registers a client's interest in one device's state changes.
type joinRequest struct {
	client   *Client
	deviceID string
}

// handleWebsockets is the main Hub loop. It is the single owner of the
// client set and of every client's watch set, so no locking is needed for
// register/unregister/join/broadcast interleavings.
func (s *WebServer) handleWebsockets() {
	// Watchers per device, for the gauge and for cleanup on disconnect.
	watcherCounts := make(map[string]int)

	for {
		select {
		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.metrics.ConnectedClients.Set(float64(len(s.clients)))

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				s.dropClient(client, watcherCounts)
			}

		case req := <-s.join:
			if _, ok := s.clients[req.client]; !ok {
				// Connection closed between read and join handling.
				continue
			}

			// Watches accumulate: joining a second device does not leave
			// the first. A repeat join of the same device is a no-op apart
			// from the catch-up push.
			if _, watching := req.client.devices[req.deviceID]; !watching {
				req.client.devices[req.deviceID] = struct{}{}
				watcherCounts[req.deviceID]++
				s.metrics.WatchedDevices.Set(float64(len(watcherCounts)))
			}

			// Catch-up push: the joining client immediately receives the
			// current state, point-to-point, independent of any broadcast.
			state := s.store.GetOrCreate(req.deviceID)
			select {
			case req.client.send <- s.buildStatePush(state):
			default:
				s.dropClient(req.client, watcherCounts)
			}

		case push, ok := <-s.broadcast:
			if !ok {
				return
			}

			// Broadcast to every client watching this device
			for client := range s.clients {
				if _, watching := client.devices[push.DeviceID]; !watching {
					continue
				}
				select {
				case client.send <- push:
					s.metrics.BroadcastsSent.Inc()
				default:
					// Client too slow, disconnect to prevent Hub blocking
					s.dropClient(client, watcherCounts)
				}
			}
		}
	}
}

// -----------------------------------------------------------------------------

// dropClient removes a client, its watches, and closes its send channel.
func (s *WebServer) dropClient(client *Client, watcherCounts map[string]int) {
	for deviceID := range client.devices {
		watcherCounts[deviceID]--
		if watcherCounts[deviceID] <= 0 {
			delete(watcherCounts, deviceID)
		}
	}
	delete(s.clients, client)
	close(client.send)

	s.metrics.ConnectedClients.Set(float64(len(s.clients)))
	s.metrics.WatchedDevices.Set(float64(len(watcherCounts)))
}

// -----------------------------------------------------------------------------
// Fan-out Entry Point
// -----------------------------------------------------------------------------

// PushDeviceState queues the full current record for fan-out. Derived
// display fields are computed here, at push time, not stored.
func (s *WebServer) PushDeviceState(state models.MDeviceState) {
	s.broadcast <- s.buildStatePush(state)
}

// -----------------------------------------------------------------------------

func (s *WebServer) buildStatePush(state models.MDeviceState) models.MStatePush {
	return models.MStatePush{
		Event:           "device-state",
		DeviceID:        state.DeviceID,
		AmountCents:     state.AmountCents,
		Currency:        state.Currency,
		AmountFormatted: helpers.FormatAmount(state.AmountCents, state.Currency),
		UpdatedAt:       state.UpdatedAt,
		Clock:           helpers.ClockLabel(time.Now()),
	}
}

// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// ExportQueueName is the durable queue design exports are published to.
const ExportQueueName = "design.exported"

// DesignExportedEvent is published whenever a designer downloads a saved
// document.  It carries enough of the configuration for downstream
// consumers to log or report on exports without asking the service.
type DesignExportedEvent struct {
	ConfigurationID string `json:"configuration_id"`
	SessionID       string `json:"session_id"`
	WardrobeType    string `json:"wardrobe_type"`
	ComponentCount  int    `json:"component_count"`
	Price           int    `json:"price"`
	SavedAt         string `json:"saved_at"`
}

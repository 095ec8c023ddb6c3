// Package queue carries lead events over RabbitMQ.
package queue

// LeadQueueName is the durable queue lead events are published to.
const LeadQueueName = "lead.created"

// LeadCreatedEvent is published after a lead is stored.  It carries enough of
// the lead and its property for the worker to log and notify without reading
// the primary database.
type LeadCreatedEvent struct {
	LeadID        string `json:"lead_id"`
	PropertyID    string `json:"property_id"`
	PropertySlug  string `json:"property_slug"`
	PropertyTitle string `json:"property_title"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Message       string `json:"message,omitempty"`
	CreatedAt     string `json:"created_at"` // RFC 3339
}

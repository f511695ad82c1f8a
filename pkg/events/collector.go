package events

// Collector is embedded in aggregates to accumulate domain events during
// state transitions until the application layer drains them for publishing.
type Collector struct {
	events []DomainEvent
}

// Record appends a domain event to the collector.
func (c *Collector) Record(event DomainEvent) {
	c.events = append(c.events, event)
}

// Events returns the collected domain events without clearing them.
func (c *Collector) Events() []DomainEvent {
	return c.events
}

// ClearEvents returns the collected domain events and clears the internal
// slice, so each event is published at most once.
func (c *Collector) ClearEvents() []DomainEvent {
	collected := c.events
	c.events = nil
	return collected
}

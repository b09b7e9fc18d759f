package publisher

// Publisher represents a service for publishing deal records
type Publisher interface {
	// Publish publishes one serialized deal record under the store key
	Publish(store string, record []byte) error

	// TrimStreams trims all deal streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}

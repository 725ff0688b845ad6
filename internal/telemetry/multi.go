package telemetry

// Multi fans one Sample out to every configured Publisher. The control
// loop holds exactly one Multi, built once at startup from whichever
// sinks the schedule document's telemetry: block enabled.
type Multi struct {
	publishers []Publisher
}

func NewMulti(publishers ...Publisher) *Multi {
	return &Multi{publishers: publishers}
}

func (m *Multi) Publish(sample Sample) {
	for _, p := range m.publishers {
		p.Publish(sample)
	}
}

func (m *Multi) Close() error {
	var firstErr error
	for _, p := range m.publishers {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

package health

import "time"

// Service encapsulates health-related checks.
type Service struct {
	startedAt time.Time
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{startedAt: time.Now().UTC()}
}

// Status returns a simple health payload.
func (s *Service) Status() map[string]any {
	return map[string]any{
		"ok":             true,
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
	}
}

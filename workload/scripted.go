package workload

import "log"

// ScriptedSource replays a fixed list of requests, starting over after the
// last one.
type ScriptedSource struct {
	requests []Request
	next     int
}

// NewScriptedSource creates a ScriptedSource. The list must not be empty.
func NewScriptedSource(requests ...Request) *ScriptedSource {
	if len(requests) == 0 {
		log.Panic("workload: a scripted source needs at least one request")
	}

	return &ScriptedSource{requests: requests}
}

// Next returns the next request in the script.
func (s *ScriptedSource) Next() Request {
	r := s.requests[s.next]
	s.next = (s.next + 1) % len(s.requests)

	return r
}

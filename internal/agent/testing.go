package agent

import "context"

// ScriptedBackend replays a fixed sequence of decisions. Intended for
// tests; once the script is exhausted it repeats the last decision.
type ScriptedBackend struct {
	Script   []*Decision
	Err      error
	Requests []Request
	step     int
}

func (s *ScriptedBackend) Generate(_ context.Context, req Request) (*Decision, error) {
	s.Requests = append(s.Requests, req)
	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Script) == 0 {
		return &Decision{Final: "ok"}, nil
	}
	d := s.Script[min(s.step, len(s.Script)-1)]
	s.step++
	return d, nil
}

package engine

// GameName identifies this game in reported results.
const GameName = "blockstack"

// Result is the terminal outcome handed to the Reporter.
type Result struct {
	Game        string `json:"game"`
	Mode        string `json:"mode"`
	Username    string `json:"username"`
	Value       int64  `json:"value"`
	IsTimeValue bool   `json:"isTimeValue"`
	// Completed is false for a sprint that ended before its line goal.
	Completed bool `json:"completed"`
}

// Reporter receives the result of a finished game, once. Implementations must
// not block; the session ignores whatever happens afterwards.
type Reporter interface {
	Report(Result)
}

// ReporterFunc adapts a plain function to Reporter.
type ReporterFunc func(Result)

func (f ReporterFunc) Report(r Result) { f(r) }

func (s *Session) buildResult() Result {
	r := Result{
		Game:        GameName,
		Mode:        s.cfg.Key,
		Username:    s.username,
		IsTimeValue: s.cfg.IsSprint(),
		Completed:   true,
	}
	if s.cfg.IsSprint() {
		r.Value = s.finalElapsed.Milliseconds()
		r.Completed = s.reason == ReasonGoalReached
	} else {
		r.Value = int64(s.score)
	}
	return r
}

func (s *Session) report() {
	if s.reported {
		return
	}
	s.reported = true
	r := s.buildResult()
	s.result = &r
	if s.reporter == nil {
		return
	}
	defer func() {
		if err := recover(); err != nil {
			s.logger.Printf("engine: reporter panicked: %v", err)
		}
	}()
	s.reporter.Report(r)
}

// Result returns the reported outcome once the game is over.
func (s *Session) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

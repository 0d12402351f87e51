package leaderboard

import "github.com/hersh/blockstack/internal/engine"

// Multi hands each result to every reporter in order.
type Multi []engine.Reporter

func (m Multi) Report(r engine.Result) {
	for _, rep := range m {
		if rep != nil {
			rep.Report(r)
		}
	}
}

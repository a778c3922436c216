package staging

import "time"

// Clock abstracts time retrieval so the sweep threshold is testable.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

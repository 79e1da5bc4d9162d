package clock

import "time"

// Clock abstracts time.Now so timeout logic is testable.
type Clock interface {
	Now() time.Time
}

// Default implements Clock using the system clock.
type Default struct{}

func (Default) Now() time.Time {
	return time.Now()
}

// Fake is a settable clock for tests.
type Fake struct {
	Current time.Time
}

func (f *Fake) Now() time.Time {
	return f.Current
}

// Advance moves the fake clock forward.
func (f *Fake) Advance(d time.Duration) {
	f.Current = f.Current.Add(d)
}

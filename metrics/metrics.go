// Package metrics counts logins, registrations and catalog changes.
// File: metrics/metrics.go
package metrics

// login outcomes
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
	LoginLegacy  = "legacy"
)

// Recorder receives application events. Implementations must be safe for concurrent use.
type Recorder interface {
	LoginAttempt(outcome string)
	Registration()
	CatalogChange(entity, action string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) LoginAttempt(string)          {}
func (Nop) Registration()                {}
func (Nop) CatalogChange(string, string) {}

// Multi fans every event out to each Recorder in order.
type Multi []Recorder

func (m Multi) LoginAttempt(outcome string) {
	for _, r := range m {
		r.LoginAttempt(outcome)
	}
}

func (m Multi) Registration() {
	for _, r := range m {
		r.Registration()
	}
}

func (m Multi) CatalogChange(entity, action string) {
	for _, r := range m {
		r.CatalogChange(entity, action)
	}
}

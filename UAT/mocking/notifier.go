// Package mocking holds a small alerting service used by the acceptance
// tests to exercise umock.Mock as a collaborator.
package mocking

// SendFunc delivers one message to one recipient. umock's (*Mock).Call has
// exactly this shape, so a mock's bound Call method can stand in directly.
type SendFunc func(args ...any) (any, error)

// Broadcast sends the message to every recipient in order and returns the
// number of failed sends. It stops early after three consecutive failures.
func Broadcast(send SendFunc, recipients []string, message string) int {
	failures := 0
	streak := 0

	for _, recipient := range recipients {
		if _, err := send(recipient, message); err != nil {
			failures++
			streak++

			if streak == 3 {
				break
			}

			continue
		}

		streak = 0
	}

	return failures
}

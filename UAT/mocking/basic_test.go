package mocking_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive

	"github.com/ntoll/umock"
	mocking "github.com/ntoll/umock/UAT/mocking"
)

func TestBroadcastSendsToEveryRecipient(t *testing.T) {
	t.Parallel()

	g := NewWithT(t)

	send := umock.New(umock.WithReturnValue("ok"))
	recipients := []string{"ana", "bo", "cy"}

	failures := mocking.Broadcast(send.Call, recipients, "hello")

	g.Expect(failures).To(BeZero())
	g.Expect(send.CallCount()).To(Equal(3))

	send.AssertHasCalls(t, []umock.Call{
		umock.NewCall("ana", "hello"),
		umock.NewCall("bo", "hello"),
		umock.NewCall("cy", "hello"),
	}, false)

	send.AssertCalledWith(t, "cy", "hello")
}

func TestBroadcastCountsFailures(t *testing.T) {
	t.Parallel()

	g := NewWithT(t)

	// First send fails, the rest succeed.
	send := umock.New()
	err := send.SetSideEffect(func(call umock.Call) (any, error) {
		if call.Args[0] == "ana" {
			return nil, errors.New("mailbox full")
		}

		return "ok", nil
	})
	g.Expect(err).NotTo(HaveOccurred())

	failures := mocking.Broadcast(send.Call, []string{"ana", "bo"}, "hi")

	g.Expect(failures).To(Equal(1))
	send.AssertAnyCall(t, "bo", "hi")
}

func TestBroadcastStopsAfterThreeConsecutiveFailures(t *testing.T) {
	t.Parallel()

	g := NewWithT(t)

	send := umock.New(umock.WithSideEffect(errors.New("smtp down")))
	recipients := []string{"a", "b", "c", "d", "e"}

	failures := mocking.Broadcast(send.Call, recipients, "hi")

	g.Expect(failures).To(Equal(3))
	g.Expect(send.CallCount()).To(Equal(3))

	// The fourth recipient was never attempted.
	last, ok := send.CallArgs()
	g.Expect(ok).To(BeTrue())
	g.Expect(last.Equal(umock.NewCall("c", "hi"))).To(BeTrue())
}

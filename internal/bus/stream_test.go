package bus

import "testing"

func TestStreamDropsWithNoSubscribers(t *testing.T) {
	s := NewStream[int](nil)
	s.Post(1)
	sub := s.Subscribe("test")
	if got := sub.Get(); len(got) != 0 {
		t.Errorf("expected post before any subscriber to be dropped, got %v", got)
	}
}

func TestStreamGetReturnsOnlyNew(t *testing.T) {
	s := NewStream[int](nil)
	sub := s.Subscribe("test")
	if len(sub.Get()) != 0 {
		t.Errorf("expected empty slice with nothing posted")
	}

	s.Post(1)
	s.Post(2)
	got := sub.Get()
	if len(got) != 2 || got[0].Payload != 1 || got[1].Payload != 2 {
		t.Fatalf("got %v, want [1, 2] in order", got)
	}

	if len(sub.Get()) != 0 {
		t.Errorf("second Get should return nothing new")
	}
}

func TestStreamLatest(t *testing.T) {
	s := NewStream[int](nil)
	sub := s.Subscribe("test")

	if _, ok := sub.Latest(); ok {
		t.Fatalf("expected no latest value before any post")
	}

	s.Post(10)
	s.Post(20)
	env, ok := sub.Latest()
	if !ok || env.Payload != 20 {
		t.Fatalf("got %+v, ok=%v, want payload 20", env, ok)
	}

	if _, ok := sub.Latest(); ok {
		t.Fatalf("expected Latest to consume, second call should be empty")
	}
}

func TestStreamMultipleSubscribersIndependentOffsets(t *testing.T) {
	s := NewStream[string](nil)
	a := s.Subscribe("a")
	s.Post("x")
	b := s.Subscribe("b")
	s.Post("y")

	gotA := a.Get()
	gotB := b.Get()
	if len(gotA) != 2 {
		t.Fatalf("subscriber a should see both posts, got %v", gotA)
	}
	if len(gotB) != 1 || gotB[0].Payload != "y" {
		t.Fatalf("subscriber b should only see posts after it subscribed, got %v", gotB)
	}
}

func TestStreamCompactReclaimsConsumedPrefix(t *testing.T) {
	s := NewStream[int](nil)
	sub := s.Subscribe("test")

	for i := 0; i < 100; i++ {
		s.Post(i)
	}
	sub.Get()
	s.Compact()

	if len(s.events) != 0 {
		t.Fatalf("expected fully-consumed backlog to compact to zero, got %d", len(s.events))
	}

	s.Post(999)
	got := sub.Get()
	if len(got) != 1 || got[0].Payload != 999 {
		t.Fatalf("got %v after compact, want [999]", got)
	}
}

func TestStreamUnsubscribeLeavesOtherSubscribersReceiving(t *testing.T) {
	s := NewStream[int](nil)
	sub := s.Subscribe("test")
	sub.Unsubscribe()

	other := s.Subscribe("other")
	s.Post(1)
	if got := other.Get(); len(got) != 1 {
		t.Fatalf("expected remaining subscriber to still see posts, got %v", got)
	}
}

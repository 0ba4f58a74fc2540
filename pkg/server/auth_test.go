package server

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func acceptAll(name, secret string) authVerdict {
	return authVerdict{key: name}
}

func TestAuthorizerResolvesOnData(t *testing.T) {
	a := newAuthorizer(time.Minute, func(name, secret string) authVerdict {
		if name != "alice" || secret != "hunter2" {
			t.Fatalf("check: got %q %q", name, secret)
		}
		return authVerdict{key: "alice"}
	}, nil)
	a.Data("alice hunter2")
	v := a.Wait()
	if !v.authorized() || v.key != "alice" {
		t.Fatalf("Wait: want authorized alice, got %+v", v)
	}
}

func TestAuthorizerMalformedLine(t *testing.T) {
	a := newAuthorizer(time.Minute, acceptAll, nil)
	a.Data("   ")
	if v := a.Wait(); v.authorized() {
		t.Fatalf("Wait: blank credential line must not authorize")
	}
}

func TestAuthorizerSecretMayContainSpaces(t *testing.T) {
	a := newAuthorizer(time.Minute, func(name, secret string) authVerdict {
		if secret != "correct horse battery" {
			t.Fatalf("check: secret %q", secret)
		}
		return authVerdict{key: name}
	}, nil)
	a.Data("bob correct horse battery")
	a.Wait()
}

func TestAuthorizerFirstEventWins(t *testing.T) {
	a := newAuthorizer(time.Minute, acceptAll, nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 3 {
			case 0:
				a.Data("alice pw")
			case 1:
				a.Closed()
			case 2:
				a.Error(errors.New("reset"))
			}
		}(i)
	}
	wg.Wait()

	v := a.Wait()
	// Whichever event settled the machine, later events must not have
	// overwritten the verdict.
	if v.authorized() && v.key != "alice" {
		t.Fatalf("Wait: corrupted verdict %+v", v)
	}
	if a.Wait() != v {
		t.Fatalf("Wait: verdict changed between calls")
	}
}

func TestAuthorizerTimeout(t *testing.T) {
	fired := make(chan struct{})
	a := newAuthorizer(time.Millisecond, acceptAll, func() { close(fired) })
	v := a.Wait()
	if v.authorized() || v.reason != "connection timeout" {
		t.Fatalf("Wait: want timeout verdict, got %+v", v)
	}
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatalf("onTimeout callback never ran")
	}

	// The losing event after timeout is a no-op.
	a.Data("alice pw")
	if got := a.Wait(); got != v {
		t.Fatalf("Wait: verdict changed after timeout")
	}
}

func TestAuthorizerTimeoutDisarmedByData(t *testing.T) {
	a := newAuthorizer(50*time.Millisecond, acceptAll, func() {
		t.Errorf("onTimeout ran after the handshake settled")
	})
	a.Data("alice pw")
	a.Wait()
	time.Sleep(100 * time.Millisecond)
}

package ledger

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func buildStreamCSV(clientBase ClientID, txBase TransactionID, count int) string {
	var b strings.Builder
	b.WriteString("type,client,tx,amount\n")
	for i := 0; i < count; i++ {
		client := clientBase + ClientID(i%4)
		tx := txBase + TransactionID(i)
		fmt.Fprintf(&b, "deposit,%d,%d,10.0\n", client, tx)
	}
	return b.String()
}

// TestDisjointStreamsConverge feeds three disjoint-client-range,
// disjoint-tx-id-range streams concurrently through both the sync and the
// async engine and asserts the two end up with identical account state
// and identical sets of applied transaction ids, per the concurrency
// property in §8.
func TestDisjointStreamsConverge(t *testing.T) {
	streams := []string{
		buildStreamCSV(1, 1, 100),
		buildStreamCSV(101, 1000, 100),
		buildStreamCSV(201, 2000, 100),
	}

	sync := NewEngine(16)
	runConcurrentSync(t, sync, streams)

	async := NewAsyncEngine(16)
	runConcurrentAsync(t, async, streams)

	for _, base := range []ClientID{1, 101, 201} {
		for off := ClientID(0); off < 4; off++ {
			client := base + off
			s, sok := sync.Account(client)
			a, aok := async.Account(client)
			if sok != aok {
				t.Fatalf("client %d: sync present=%v, async present=%v", client, sok, aok)
			}
			if sok && (!s.Available.Equal(a.Available) || !s.Held.Equal(a.Held) || !s.Total.Equal(a.Total) || s.Locked != a.Locked) {
				t.Fatalf("client %d: sync=%+v, async=%+v", client, s, a)
			}
		}
	}

	for _, base := range []TransactionID{1, 1000, 2000} {
		for off := TransactionID(0); off < 100; off++ {
			tx := base + off
			if sync.log.Contains(tx) != async.log.Contains(tx) {
				t.Fatalf("tx %d: sync logged=%v, async logged=%v", tx, sync.log.Contains(tx), async.log.Contains(tx))
			}
		}
	}
}

func runConcurrentSync(t *testing.T, e *Engine, streams []string) {
	t.Helper()
	done := make(chan struct{}, len(streams))
	for _, s := range streams {
		go func(s string) {
			defer func() { done <- struct{}{} }()
			_ = e.ReadAndProcess(strings.NewReader(s))
		}(s)
	}
	for range streams {
		<-done
	}
}

func runConcurrentAsync(t *testing.T, e *AsyncEngine, streams []string) {
	t.Helper()
	ctx := context.Background()
	done := make(chan struct{}, len(streams))
	for _, s := range streams {
		go func(s string) {
			defer func() { done <- struct{}{} }()
			_ = e.ReadAndProcess(ctx, strings.NewReader(s), 4)
		}(s)
	}
	for range streams {
		<-done
	}
}

func TestAsyncEngineMatchesScenario(t *testing.T) {
	e := NewAsyncEngine(4)
	err := e.ReadAndProcess(context.Background(), strings.NewReader(
		"type,client,tx,amount\ndeposit,1,1,100.0\nwithdrawal,1,2,30.0\n"), 2)
	if err != nil {
		t.Fatal(err)
	}
	acc, ok := e.Account(1)
	if !ok {
		t.Fatal("expected account 1 to exist")
	}
	if want := mustMoney(t, "70"); !acc.Available.Equal(want) {
		t.Fatalf("available = %s, want 70", acc.Available)
	}
}

func TestAsyncEngineCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewAsyncEngine(4)
	// Cancelling up front must not hang; it should return promptly with
	// whatever partial (possibly zero) work happened.
	_ = e.ReadAndProcess(ctx, strings.NewReader(buildStreamCSV(1, 1, 50)), 2)
}

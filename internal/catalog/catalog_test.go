package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
)

// fakeSource returns preset articles or an error and records call count.
type fakeSource struct {
	articles []domain.Article
	err      error
	calls    int
	onFetch  func()
}

func (f *fakeSource) Fetch(_ context.Context) ([]domain.Article, error) {
	f.calls++
	if f.onFetch != nil {
		f.onFetch()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

func TestFetchClassifiesArticles(t *testing.T) {
	src := &fakeSource{articles: []domain.Article{
		{Title: "Stocks rally as market hits record", URL: "https://x", Category: domain.General},
	}}
	c := New(src)

	c.Fetch(context.Background())

	state := c.Snapshot()
	if state.IsLoading || state.IsError {
		t.Fatalf("unexpected flags %+v", state)
	}
	want := []domain.Article{{Title: "Stocks rally as market hits record", URL: "https://x", Category: domain.Business}}
	if len(state.Articles) != 1 || state.Articles[0] != want[0] {
		t.Fatalf("unexpected articles %#v", state.Articles)
	}
}

func TestFetchFailureSetsErrorAndKeepsArticles(t *testing.T) {
	src := &fakeSource{err: errors.New("network down")}
	c := New(src)

	c.Fetch(context.Background())
	if !c.IsError() || c.IsLoading() {
		t.Fatalf("expected error flag without loading, got %+v", c.Snapshot())
	}
	if len(c.Articles()) != 0 {
		t.Fatalf("expected empty articles on first failed load")
	}

	src.err = nil
	src.articles = []domain.Article{{Title: "Cricket final", URL: "https://a"}}
	c.Fetch(context.Background())
	if c.IsError() {
		t.Fatalf("error flag not reset on successful fetch")
	}

	src.err = errors.New("bad json")
	c.Fetch(context.Background())
	if !c.IsError() {
		t.Fatalf("expected error flag")
	}
	articles := c.Articles()
	if len(articles) != 1 || articles[0].Category != domain.Sports {
		t.Fatalf("articles should be unchanged after failure, got %#v", articles)
	}
}

func TestFetchSetsLoadingWhileInFlight(t *testing.T) {
	var c *Catalog
	var loading, errored bool
	src := &fakeSource{onFetch: func() {
		loading = c.IsLoading()
		errored = c.IsError()
	}}
	c = New(src)

	c.Fetch(context.Background())

	if !loading || errored {
		t.Fatalf("expected loading=true error=false during fetch, got %v %v", loading, errored)
	}
	if c.IsLoading() {
		t.Fatalf("loading flag not cleared")
	}
}

func TestFetchWithoutSourceIsError(t *testing.T) {
	c := New(nil)
	c.Fetch(context.Background())
	if !c.IsError() || c.IsLoading() {
		t.Fatalf("expected error state, got %+v", c.Snapshot())
	}
}

func TestSubscribeReceivesFinalState(t *testing.T) {
	src := &fakeSource{articles: []domain.Article{{Title: "AI news", URL: "https://a"}}}
	c := New(src)
	ch, cancel := c.Subscribe()
	defer cancel()

	c.Fetch(context.Background())

	state := <-ch
	if state.IsLoading || len(state.Articles) != 1 {
		t.Fatalf("expected final state, got %+v", state)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	src := &fakeSource{articles: []domain.Article{{Title: "one", URL: "https://a"}}}
	c := New(src)
	c.Fetch(context.Background())

	snap := c.Articles()
	snap[0].Title = "mutated"
	if c.Articles()[0].Title != "one" {
		t.Fatalf("snapshot mutation leaked into catalog")
	}
}

func TestWithClassifierOverrides(t *testing.T) {
	src := &fakeSource{articles: []domain.Article{{Title: "anything", URL: "https://a"}}}
	c := New(src, WithClassifier(func(a domain.Article) domain.Article {
		a.Category = domain.Health
		return a
	}))
	c.Fetch(context.Background())
	if got := c.Articles()[0].Category; got != domain.Health {
		t.Fatalf("expected custom classifier result, got %s", got)
	}
}

func TestViewComposesFilters(t *testing.T) {
	src := &fakeSource{articles: []domain.Article{
		{Title: "Cricket: India beat Australia", URL: "https://1"},
		{Title: "Stocks slide", URL: "https://2"},
		{Title: "Football transfer news", URL: "https://3"},
	}}
	c := New(src)
	c.Fetch(context.Background())

	got := c.View("Sports", "india")
	if len(got) != 1 || got[0].URL != "https://1" {
		t.Fatalf("unexpected view %#v", got)
	}
	if got := c.View("All", ""); len(got) != 3 {
		t.Fatalf("expected all articles, got %d", len(got))
	}
}

func TestOverlappingFetchesLastFinisherWins(t *testing.T) {
	release := []chan struct{}{make(chan struct{}), make(chan struct{})}
	started := make(chan int, 2)
	var calls int32
	src := SourceFunc(func(context.Context) ([]domain.Article, error) {
		i := int(atomic.AddInt32(&calls, 1) - 1)
		started <- i
		<-release[i]
		return []domain.Article{{Title: fmt.Sprintf("fetch-%d", i), URL: fmt.Sprintf("https://%d", i)}}, nil
	})
	c := New(src)
	states, cancel := c.Subscribe()
	defer cancel()

	stop := make(chan struct{})
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			select {
			case <-stop:
				return
			default:
				_ = c.Snapshot()
				_ = c.IsLoading()
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Fetch(context.Background())
		}()
	}
	<-started
	<-started

	// Finish the second request first, then the first one.
	close(release[1])
	waitFor(t, func() bool {
		a := c.Articles()
		return len(a) == 1 && a[0].Title == "fetch-1"
	})
	close(release[0])
	wg.Wait()
	close(stop)
	<-readerDone

	final := c.Snapshot()
	if len(final.Articles) != 1 || final.Articles[0].Title != "fetch-0" {
		t.Fatalf("expected articles from the fetch that finished last, got %+v", final.Articles)
	}
	if final.IsLoading || final.IsError {
		t.Fatalf("expected idle state, got loading=%v error=%v", final.IsLoading, final.IsError)
	}

	select {
	case st := <-states:
		if st.IsLoading || len(st.Articles) != 1 || st.Articles[0].Title != "fetch-0" {
			t.Fatalf("subscriber saw stale state %+v", st)
		}
	default:
		t.Fatalf("expected a pending state for the subscriber")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

package sight

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Pagination defaults. The service pages every collection with offset and
// limit and never returns more than MaxPageSize records per request.
const (
	// DefaultPageSize is the page size used when none is given.
	DefaultPageSize = 10
	// MaxPageSize is the largest page the service will return.
	MaxPageSize = 100
	// DefaultMaxPages bounds a fetch-all run so a misreported total cannot
	// turn into an unbounded request storm.
	DefaultMaxPages = 50
	// DefaultConcurrentFetches is how many pages are fetched in parallel.
	DefaultConcurrentFetches = 10
	// MaxConcurrentFetches is the hard ceiling on parallel page fetches.
	MaxConcurrentFetches = 20
)

// PageFunc fetches one page of a collection at the given offset and limit.
// It carries the full request logic for an endpoint: both the blocking and
// the streaming aggregators execute the same PageFunc, so the two can never
// disagree about what goes on the wire. Implementations must be safe for
// concurrent use.
type PageFunc[T any] func(ctx context.Context, offset, limit int) (*ListResponse[T], error)

// PaginationOptions tunes multi-page fetches. The zero value uses the
// defaults above.
type PaginationOptions struct {
	// PageSize is the per-request limit. Zero means DefaultPageSize; values
	// above MaxPageSize are clamped to it.
	PageSize int
	// MaxPages bounds the number of requests a single run may issue,
	// counting the first page. Zero means DefaultMaxPages, negative means
	// no bound.
	MaxPages int
	// MaxConcurrency bounds parallel page requests. Zero means
	// DefaultConcurrentFetches; values above MaxConcurrentFetches are
	// clamped to it.
	MaxConcurrency int
	// TotalLimit caps the number of records fetched across all pages. Zero
	// means no cap.
	TotalLimit int
}

func resolvePaginationOptions(opts *PaginationOptions) PaginationOptions {
	resolved := PaginationOptions{}
	if opts != nil {
		resolved = *opts
	}

	resolved.PageSize = normalizeLimit(resolved.PageSize)

	if resolved.MaxPages == 0 {
		resolved.MaxPages = DefaultMaxPages
	}

	switch {
	case resolved.MaxConcurrency <= 0:
		resolved.MaxConcurrency = DefaultConcurrentFetches
	case resolved.MaxConcurrency > MaxConcurrentFetches:
		resolved.MaxConcurrency = MaxConcurrentFetches
	}

	return resolved
}

// planOffsets computes the offsets of the pages that remain after a first
// page fetched at offset 0. The server-reported total drives the plan;
// MaxPages and TotalLimit shrink it.
func planOffsets(total int, opts PaginationOptions) []int {
	want := total
	if opts.TotalLimit > 0 && opts.TotalLimit < want {
		want = opts.TotalLimit
	}

	var offsets []int

	pages := 1
	for offset := opts.PageSize; offset < want; offset += opts.PageSize {
		if opts.MaxPages > 0 && pages >= opts.MaxPages {
			break
		}

		offsets = append(offsets, offset)
		pages++
	}

	return offsets
}

// FetchAllPages retrieves every page of a collection and returns the
// concatenated records in offset order. The first page is fetched alone to
// learn the collection's total, then the remaining pages are fetched in
// parallel, bounded by MaxConcurrency. An empty first page yields an empty
// result. Any page failure aborts the run and is returned to the caller.
func FetchAllPages[T any](ctx context.Context, fetch PageFunc[T], opts *PaginationOptions) ([]T, error) {
	resolved := resolvePaginationOptions(opts)

	first, err := fetch(ctx, 0, resolved.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page at offset 0: %w", err)
	}

	items := []T{}
	if first == nil || len(first.Data) == 0 {
		return items, nil
	}

	items = append(items, first.Data...)

	offsets := planOffsets(first.Total, resolved)
	if len(offsets) > 0 {
		pages, err := fetchConcurrently(ctx, fetch, offsets, resolved)
		if err != nil {
			return nil, err
		}

		for _, page := range pages {
			items = append(items, page...)
		}
	}

	if resolved.TotalLimit > 0 && len(items) > resolved.TotalLimit {
		items = items[:resolved.TotalLimit]
	}

	return items, nil
}

// fetchConcurrently requests the given offsets with a bounded number of
// in-flight fetches and returns the pages in offset order. The first failure
// cancels the remaining fetches and is the error the caller sees.
func fetchConcurrently[T any](ctx context.Context, fetch PageFunc[T], offsets []int, opts PaginationOptions) ([][]T, error) {
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		waitGroup sync.WaitGroup
		once      sync.Once
		firstErr  error
	)

	abort := func(err error) {
		once.Do(func() {
			firstErr = err

			cancel()
		})
	}

	pages := make([][]T, len(offsets))
	semaphore := make(chan struct{}, opts.MaxConcurrency)

	for i, offset := range offsets {
		waitGroup.Add(1)

		go func(index, pageOffset int) {
			defer waitGroup.Done()

			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			case <-fetchCtx.Done():
				abort(fetchCtx.Err())

				return
			}

			page, err := fetch(fetchCtx, pageOffset, opts.PageSize)
			if err != nil {
				abort(fmt.Errorf("failed to fetch page at offset %d: %w", pageOffset, err))

				return
			}

			if page != nil {
				pages[index] = page.Data
			}
		}(i, offset)
	}

	waitGroup.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return pages, nil
}

// StreamPages retrieves every page of a collection and delivers them on the
// returned channel in offset order, fetching ahead in parallel bounded by
// MaxConcurrency. The channel closes after the final page. A failed page is
// delivered as a PageResult with Err set and ends the stream; an empty
// collection closes the channel without delivering anything. Cancel ctx to
// abandon the stream early.
func StreamPages[T any](ctx context.Context, fetch PageFunc[T], opts *PaginationOptions) <-chan PageResult[T] {
	resolved := resolvePaginationOptions(opts)
	out := make(chan PageResult[T], 1)

	go func() {
		defer close(out)

		first, err := fetch(ctx, 0, resolved.PageSize)
		if err != nil {
			emit(ctx, out, PageResult[T]{Offset: 0, Err: fmt.Errorf("failed to fetch page at offset 0: %w", err)})

			return
		}

		if first == nil || len(first.Data) == 0 {
			return
		}

		budget := resolved.TotalLimit

		firstItems := first.Data
		if budget > 0 && len(firstItems) > budget {
			firstItems = firstItems[:budget]
		}

		if !emit(ctx, out, PageResult[T]{Offset: 0, Items: firstItems, Total: first.Total}) {
			return
		}

		if budget > 0 {
			budget -= len(firstItems)
			if budget <= 0 {
				return
			}
		}

		offsets := planOffsets(first.Total, resolved)
		if len(offsets) == 0 {
			return
		}

		streamConcurrently(ctx, fetch, offsets, resolved, budget, out)
	}()

	return out
}

// streamConcurrently fans the given offsets out to bounded workers and
// forwards their pages in offset order. budget is the number of records the
// stream may still deliver, zero meaning unlimited.
func streamConcurrently[T any](ctx context.Context, fetch PageFunc[T], offsets []int, opts PaginationOptions, budget int, out chan<- PageResult[T]) {
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]chan PageResult[T], len(offsets))
	semaphore := make(chan struct{}, opts.MaxConcurrency)

	for i, offset := range offsets {
		results[i] = make(chan PageResult[T], 1)

		go func(result chan<- PageResult[T], pageOffset int) {
			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			case <-fetchCtx.Done():
				result <- PageResult[T]{Offset: pageOffset, Err: fetchCtx.Err()}

				return
			}

			page, err := fetch(fetchCtx, pageOffset, opts.PageSize)
			if err != nil {
				result <- PageResult[T]{Offset: pageOffset, Err: fmt.Errorf("failed to fetch page at offset %d: %w", pageOffset, err)}

				return
			}

			pageResult := PageResult[T]{Offset: pageOffset}
			if page != nil {
				pageResult.Items = page.Data
				pageResult.Total = page.Total
			}

			result <- pageResult
		}(results[i], offset)
	}

	for _, result := range results {
		pageResult := <-result
		if pageResult.Err != nil {
			emit(ctx, out, pageResult)

			return
		}

		if budget > 0 && len(pageResult.Items) > budget {
			pageResult.Items = pageResult.Items[:budget]
		}

		if !emit(ctx, out, pageResult) {
			return
		}

		if budget > 0 {
			budget -= len(pageResult.Items)
			if budget <= 0 {
				return
			}
		}
	}
}

// emit sends a result unless the caller has gone away.
func emit[T any](ctx context.Context, out chan<- PageResult[T], result PageResult[T]) bool {
	select {
	case out <- result:
		return true
	case <-ctx.Done():
		return false
	}
}

// PageIterator walks a collection lazily, one page at a time, for callers
// that want records without holding the whole collection in memory.
type PageIterator[T any] struct {
	ctx     context.Context
	fetch   PageFunc[T]
	opts    PaginationOptions
	buffer  []T
	offset  int
	total   int
	pages   int
	fetched bool
	done    bool
}

// NewPageIterator creates an iterator over a paged collection. Pages are
// requested on demand as Next drains them.
func NewPageIterator[T any](ctx context.Context, fetch PageFunc[T], opts *PaginationOptions) *PageIterator[T] {
	return &PageIterator[T]{
		ctx:   ctx,
		fetch: fetch,
		opts:  resolvePaginationOptions(opts),
	}
}

// HasNext reports whether another record is available. It reflects what is
// known so far: before the first fetch it is optimistic, afterwards it is
// exact.
func (it *PageIterator[T]) HasNext() bool {
	if len(it.buffer) > 0 {
		return true
	}

	if it.done {
		return false
	}

	if !it.fetched {
		return true
	}

	return it.offset < it.effectiveTotal() && it.withinPageBound()
}

// Next returns the next record, fetching the next page when the current one
// is drained. It returns ErrNoMoreItems past the end of the collection.
func (it *PageIterator[T]) Next() (T, error) {
	var zero T

	if len(it.buffer) == 0 {
		if err := it.fetchNextPage(); err != nil {
			return zero, err
		}
	}

	if len(it.buffer) == 0 {
		it.done = true

		return zero, ErrNoMoreItems
	}

	item := it.buffer[0]
	it.buffer = it.buffer[1:]

	return item, nil
}

// All drains the iterator and returns every remaining record.
func (it *PageIterator[T]) All() ([]T, error) {
	items := []T{}

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				break
			}

			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

// ForEach applies fn to every remaining record, stopping at the first error.
func (it *PageIterator[T]) ForEach(fn func(item T) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				return nil
			}

			return err
		}

		if err := fn(item); err != nil {
			return err
		}
	}

	return nil
}

// Total returns the collection size the server reported, valid after the
// first fetch.
func (it *PageIterator[T]) Total() int {
	return it.total
}

func (it *PageIterator[T]) fetchNextPage() error {
	if it.done {
		return ErrNoMoreItems
	}

	if it.fetched && (it.offset >= it.effectiveTotal() || !it.withinPageBound()) {
		it.done = true

		return ErrNoMoreItems
	}

	page, err := it.fetch(it.ctx, it.offset, it.opts.PageSize)
	if err != nil {
		return fmt.Errorf("failed to fetch page at offset %d: %w", it.offset, err)
	}

	it.fetched = true
	it.pages++

	if page == nil || len(page.Data) == 0 {
		it.done = true

		return nil
	}

	it.total = page.Total
	it.buffer = page.Data

	if limit := it.opts.TotalLimit; limit > 0 {
		room := limit - it.offset
		if room <= 0 {
			it.buffer = nil
			it.done = true

			return nil
		}

		if len(it.buffer) > room {
			it.buffer = it.buffer[:room]
		}
	}

	it.offset += it.opts.PageSize

	return nil
}

func (it *PageIterator[T]) effectiveTotal() int {
	if it.opts.TotalLimit > 0 && it.opts.TotalLimit < it.total {
		return it.opts.TotalLimit
	}

	return it.total
}

func (it *PageIterator[T]) withinPageBound() bool {
	return it.opts.MaxPages <= 0 || it.pages < it.opts.MaxPages
}

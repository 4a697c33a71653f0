// Copyright 2024 The acquirecloud Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package timeout

type (
	// Future represents the result of an asynchronous operation. Anything
	// that can report "the result is available" via a channel satisfies the
	// contract, so the operations driven by arbitrary machinery (goroutines,
	// IO reactors, rpc clients etc.) may be bounded by the package.
	Future[T any] interface {
		// Done returns the channel, which is closed when the operation result
		// becomes available
		Done() <-chan struct{}
		// Get returns the operation outcome. The result is defined only
		// after the Done() channel is closed.
		Get() (T, error)
	}

	future[T any] struct {
		done chan struct{}
		v    T
		err  error
	}
)

var _ Future[int] = (*future[int])(nil)

// Go runs the function f in a separate goroutine and returns the Future of
// its result
func Go[T any](f func() (T, error)) Future[T] {
	fut := &future[T]{done: make(chan struct{})}
	go func() {
		fut.v, fut.err = f()
		close(fut.done)
	}()
	return fut
}

// Resolved returns the Future, which is complete with the value v already
func Resolved[T any](v T) Future[T] {
	fut := &future[T]{done: make(chan struct{}), v: v}
	close(fut.done)
	return fut
}

// Never returns the Future, which never completes. It is handy for tests and
// benchmarks of the code bounded by deadlines.
func Never[T any]() Future[T] {
	return &future[T]{done: make(chan struct{})}
}

// Failed returns the Future, which is complete with the error err already
func Failed[T any](err error) Future[T] {
	fut := &future[T]{done: make(chan struct{}), err: err}
	close(fut.done)
	return fut
}

func (f *future[T]) Done() <-chan struct{} {
	return f.done
}

func (f *future[T]) Get() (T, error) {
	return f.v, f.err
}

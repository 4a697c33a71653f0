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

import (
	goerrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGo(t *testing.T) {
	fut := Go(func() (string, error) {
		return "done", nil
	})
	select {
	case <-fut.Done():
	case <-time.After(time.Second):
		t.Fatal("the future did not complete")
	}
	v, err := fut.Get()
	assert.Nil(t, err)
	assert.Equal(t, "done", v)
}

func TestResolved(t *testing.T) {
	fut := Resolved(42)
	select {
	case <-fut.Done():
	default:
		t.Fatal("the resolved future must be complete right away")
	}
	v, err := fut.Get()
	assert.Nil(t, err)
	assert.Equal(t, 42, v)
}

func TestFailed(t *testing.T) {
	opErr := goerrors.New("boom")
	fut := Failed[int](opErr)
	select {
	case <-fut.Done():
	default:
		t.Fatal("the failed future must be complete right away")
	}
	_, err := fut.Get()
	assert.Equal(t, opErr, err)
}

func TestNever(t *testing.T) {
	fut := Never[int]()
	select {
	case <-fut.Done():
		t.Fatal("the never future must not complete")
	case <-time.After(10 * time.Millisecond):
	}
}

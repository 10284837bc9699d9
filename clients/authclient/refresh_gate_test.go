// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package authclient

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForPending(t *testing.T, g *refreshGate, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return g.pending() >= n }, 2*time.Second, time.Millisecond)
}

func TestRefreshGate(t *testing.T) {
	t.Run("Concurrent callers share one refresh", func(t *testing.T) {
		g := newRefreshGate(time.Second)
		release := make(chan struct{})
		var calls atomic.Int32
		refresh := func(ctx context.Context) (string, error) {
			calls.Add(1)
			<-release
			return "fresh", nil
		}

		const n = 8
		tokens := make([]string, n)
		errs := make([]error, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				tokens[i], errs[i] = g.Do(context.Background(), 0, refresh, nil)
			}(i)
		}
		waitForPending(t, g, n)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for i := 0; i < n; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, "fresh", tokens[i])
		}
		assert.Equal(t, uint64(1), g.Generation())
		assert.Equal(t, 0, g.pending())
	})

	t.Run("Failure reaches every waiter and leaves generation unchanged", func(t *testing.T) {
		g := newRefreshGate(time.Second)
		release := make(chan struct{})
		boom := errors.New("boom")
		refresh := func(ctx context.Context) (string, error) {
			<-release
			return "", boom
		}

		const n = 4
		errs := make([]error, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = g.Do(context.Background(), 0, refresh, nil)
			}(i)
		}
		waitForPending(t, g, n)
		close(release)
		wg.Wait()

		for _, err := range errs {
			assert.ErrorIs(t, err, boom)
		}
		assert.Equal(t, uint64(0), g.Generation())
	})

	t.Run("Starts a new refresh after the previous one settled", func(t *testing.T) {
		g := newRefreshGate(time.Second)
		var calls atomic.Int32
		refresh := func(ctx context.Context) (string, error) {
			calls.Add(1)
			return "t", nil
		}

		_, err := g.Do(context.Background(), g.Generation(), refresh, nil)
		require.NoError(t, err)
		_, err = g.Do(context.Background(), g.Generation(), refresh, nil)
		require.NoError(t, err)

		assert.Equal(t, int32(2), calls.Load())
		assert.Equal(t, uint64(2), g.Generation())
	})

	t.Run("Reuses the current token when a refresh completed since the request went out", func(t *testing.T) {
		g := newRefreshGate(time.Second)
		_, err := g.Do(context.Background(), 0, func(context.Context) (string, error) { return "A2", nil }, nil)
		require.NoError(t, err)

		refreshed := false
		token, err := g.Do(context.Background(), 0,
			func(context.Context) (string, error) { refreshed = true; return "A3", nil },
			func(context.Context) (string, error) { return "A2", nil },
		)
		require.NoError(t, err)
		assert.False(t, refreshed)
		assert.Equal(t, "A2", token)
		assert.Equal(t, uint64(1), g.Generation())
	})

	t.Run("Caller on the latest generation refreshes while a stale reuse is in flight", func(t *testing.T) {
		g := newRefreshGate(time.Second)
		_, err := g.Do(context.Background(), 0, func(context.Context) (string, error) { return "A2", nil }, nil)
		require.NoError(t, err)

		releaseReuse := make(chan struct{})
		staleDone := make(chan string, 1)
		go func() {
			token, _ := g.Do(context.Background(), 0, nil, func(context.Context) (string, error) {
				<-releaseReuse
				return "A2", nil
			})
			staleDone <- token
		}()
		waitForPending(t, g, 1)

		var calls atomic.Int32
		token, err := g.Do(context.Background(), 1,
			func(context.Context) (string, error) { calls.Add(1); return "A3", nil },
			func(context.Context) (string, error) { return "A2", nil },
		)
		require.NoError(t, err)
		assert.Equal(t, "A3", token)
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, uint64(2), g.Generation())

		close(releaseReuse)
		assert.Equal(t, "A2", <-staleDone)
	})

	t.Run("Cancelled waiter stops waiting without aborting the refresh", func(t *testing.T) {
		g := newRefreshGate(time.Second)
		release := make(chan struct{})
		var flightErr atomic.Value
		refresh := func(ctx context.Context) (string, error) {
			<-release
			if ctx.Err() != nil {
				flightErr.Store(ctx.Err())
			}
			return "fresh", nil
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancelledDone := make(chan error, 1)
		go func() {
			_, err := g.Do(ctx, 0, refresh, nil)
			cancelledDone <- err
		}()
		waitForPending(t, g, 1)

		otherDone := make(chan string, 1)
		go func() {
			token, _ := g.Do(context.Background(), 0, refresh, nil)
			otherDone <- token
		}()
		waitForPending(t, g, 2)

		cancel()
		assert.ErrorIs(t, <-cancelledDone, context.Canceled)

		close(release)
		assert.Equal(t, "fresh", <-otherDone)
		assert.Nil(t, flightErr.Load())
	})

	t.Run("Converts a panic into an error for all waiters", func(t *testing.T) {
		g := newRefreshGate(time.Second)
		_, err := g.Do(context.Background(), 0, func(context.Context) (string, error) {
			panic("store exploded")
		}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRefreshFailed)
		assert.Equal(t, 0, g.pending())

		token, err := g.Do(context.Background(), 0, func(context.Context) (string, error) { return "ok", nil }, nil)
		require.NoError(t, err)
		assert.Equal(t, "ok", token)
	})
}

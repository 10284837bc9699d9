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
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// refreshFunc produces the access token callers should replay with.
type refreshFunc func(ctx context.Context) (string, error)

// refreshGate lets exactly one refresh run at a time. Callers arriving while a
// refresh is in flight wait for its result instead of starting their own.
//
// generation counts successful refreshes. A caller passes the generation it saw
// before sending its request; if a refresh has completed since then the caller
// gets the current token through reuse and no new refresh is started. Flights
// are keyed by that generation, so a caller that saw the latest generation
// never joins a stale caller's reuse flight.
type refreshGate struct {
	group      singleflight.Group
	generation atomic.Uint64
	waiting    atomic.Int32
	timeout    time.Duration
}

func newRefreshGate(timeout time.Duration) *refreshGate {
	return &refreshGate{timeout: timeout}
}

// Generation returns the number of successful refreshes so far.
func (g *refreshGate) Generation() uint64 {
	return g.generation.Load()
}

// pending returns the number of callers currently blocked in Do.
func (g *refreshGate) pending() int {
	return int(g.waiting.Load())
}

// Do joins the in-flight refresh or starts one.
//
// The refresh runs detached from the caller's cancellation, bounded by the gate
// timeout, because other callers may be waiting on it. A caller whose ctx ends
// stops waiting and gets ctx.Err().
func (g *refreshGate) Do(ctx context.Context, seenGen uint64, refresh, reuse refreshFunc) (string, error) {
	g.waiting.Add(1)
	defer g.waiting.Add(-1)

	ch := g.group.DoChan(strconv.FormatUint(seenGen, 10), func() (val any, err error) {
		// singleflight re-panics in a fresh goroutine; settle every waiter with an error instead
		defer func() {
			if r := recover(); r != nil {
				val, err = "", fmt.Errorf("%w: panic during refresh: %v", ErrRefreshFailed, r)
			}
		}()

		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
		defer cancel()

		if g.Generation() != seenGen {
			return reuse(flightCtx)
		}
		token, err := refresh(flightCtx)
		if err != nil {
			return "", err
		}
		g.generation.Add(1)
		return token, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package store

// EventType classifies a container-level occurrence a Listener can be
// notified of, scoped to the context pool and codec boundary.
type EventType int

const (
	EvtContextAttach EventType = iota
	EvtContextSteal
	EvtContextShrink
	EvtBucketCompress
	EvtBucketDecompress
)

func (t EventType) String() string {
	switch t {
	case EvtContextAttach:
		return "CONTEXT_ATTACH"
	case EvtContextSteal:
		return "CONTEXT_STEAL"
	case EvtContextShrink:
		return "CONTEXT_SHRINK"
	case EvtBucketCompress:
		return "BUCKET_COMPRESS"
	case EvtBucketDecompress:
		return "BUCKET_DECOMPRESS"
	default:
		return "UNKNOWN"
	}
}

// Event is the value delivered to a Listener. Bucket is the bucket
// index involved; Detail is a short human-readable note (e.g. the
// number of bytes compressed, or the evicted bucket's index on a
// steal).
type Event struct {
	Type   EventType
	Bucket int
	Detail string
}

// Listener receives Events as the container and its context pool
// operate. Registering a Listener never changes behaviour; it is
// purely an observation hook.
type Listener interface {
	ProcessEvent(evt Event)
}

// AddListener registers l on an already-constructed container, for
// callers that need the CVec itself in scope to build their Listener
// (e.g. an archiver that reads back compressed bucket bytes on
// eviction) and so can't go through WithListener at New time.
func (c *CVec[T]) AddListener(l Listener) {
	c.pool.listeners = append(c.pool.listeners, l)
}

func (c *pool) notify(evt Event) {
	for _, l := range c.listeners {
		l.ProcessEvent(evt)
	}
}

// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package util

// A reasonably simple hashmap implementation which permits collisions.
// Off-the-shelf hash containers typically assume the hash function uniquely
// identifies the data in question.  We don't want to make that assumption
// here, since keys are canonical term encodings of arbitrary length.

// Hasher provides a generic definition of a hashing function suitable for use
// within the Map, including equality so that colliding keys can be told
// apart.
type Hasher[T any] interface {
	// Equals checks whether two items are equal (or not).
	Equals(T) bool
	// Hash returns a suitable hashcode.
	Hash() uint64
}

// Map defines a generic map implementation for Hasher keys.  Collisions are
// handled gracefully using buckets, rather than simply discarding them.
type Map[K Hasher[K], V any] struct {
	// buckets maps hashcodes to *buckets* of entries.
	buckets map[uint64][]entry[K, V]
	// size caches the total number of entries.
	size uint
}

type entry[K Hasher[K], V any] struct {
	key   K
	value V
}

// NewMap creates an empty Map with a given initial capacity.
func NewMap[K Hasher[K], V any](capacity uint) *Map[K, V] {
	return &Map[K, V]{buckets: make(map[uint64][]entry[K, V], capacity)}
}

// Size returns the number of unique keys stored in this map.
func (p *Map[K, V]) Size() uint {
	return p.size
}

// Get returns the value associated with a given key, if it exists.
func (p *Map[K, V]) Get(key K) (V, bool) {
	var empty V
	//
	for _, e := range p.buckets[key.Hash()] {
		if e.key.Equals(key) {
			return e.value, true
		}
	}
	//
	return empty, false
}

// ContainsKey checks whether the given key is contained within this map.
func (p *Map[K, V]) ContainsKey(key K) bool {
	_, ok := p.Get(key)
	return ok
}

// Insert a new entry into this map, returning true if the key was already
// present (in which case its value is overwritten).
func (p *Map[K, V]) Insert(key K, value V) bool {
	hash := key.Hash()
	bucket := p.buckets[hash]
	//
	for i, e := range bucket {
		if e.key.Equals(key) {
			bucket[i].value = value
			return true
		}
	}
	//
	p.buckets[hash] = append(bucket, entry[K, V]{key, value})
	p.size++
	//
	return false
}

// Each applies a given function to every key-value pair held in this map.
// Observe that the order in which entries are visited is unspecified.
func (p *Map[K, V]) Each(fn func(K, V)) {
	for _, bucket := range p.buckets {
		for _, e := range bucket {
			fn(e.key, e.value)
		}
	}
}

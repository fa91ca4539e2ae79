// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package cache

// LRU tracks key recency for a Cache. When more than size keys have been
// touched, Touch reports the least recently used one so the Cache can drop it.
type LRU struct {
	lookup map[string]*node
	head   *node
	tail   *node
	size   int
}

type node struct {
	next  *node
	prev  *node
	value string
}

func NewLRU(size int) *LRU {
	return &LRU{
		lookup: make(map[string]*node),
		size:   size,
	}
}

func (l *LRU) Len() int {
	return len(l.lookup)
}

// Touch marks key as most recently used and returns the evicted key, or ""
// when nothing was pushed out.
func (l *LRU) Touch(key string) string {
	if n, ok := l.lookup[key]; ok {
		l.unlink(n)
		l.pushFront(n)
		return ""
	}

	n := &node{value: key}
	l.lookup[key] = n
	l.pushFront(n)

	if len(l.lookup) <= l.size {
		return ""
	}
	remove := l.tail
	l.unlink(remove)
	delete(l.lookup, remove.value)
	return remove.value
}

// Remove forgets key without reporting it.
func (l *LRU) Remove(key string) {
	if n, ok := l.lookup[key]; ok {
		l.unlink(n)
		delete(l.lookup, key)
	}
}

func (l *LRU) pushFront(n *node) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
}

func (l *LRU) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.next = nil
	n.prev = nil
}

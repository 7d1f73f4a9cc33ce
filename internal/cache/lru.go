package cache

import "iter"

// lruNode is a node in a doubly-linked recency list.
type lruNode[K comparable] struct {
	key  K
	prev *lruNode[K]
	next *lruNode[K]
}

// List is a doubly-linked recency list indexed by key.
// The head is the most recently used, tail is least recently used.
type List[K comparable] struct {
	head  *lruNode[K]
	tail  *lruNode[K]
	nodes map[K]*lruNode[K]
}

// NewList creates an empty list.
func NewList[K comparable]() *List[K] {
	return &List[K]{nodes: make(map[K]*lruNode[K])}
}

// Len returns the number of keys in the list.
func (l *List[K]) Len() int {
	return len(l.nodes)
}

// Contains reports whether key is in the list.
func (l *List[K]) Contains(key K) bool {
	_, ok := l.nodes[key]
	return ok
}

// Touch marks key as most recently used, adding it if needed.
func (l *List[K]) Touch(key K) {
	if node, ok := l.nodes[key]; ok {
		if node == l.head {
			return
		}
		l.unlink(node)
		l.pushFront(node)
		return
	}
	node := &lruNode[K]{key: key}
	l.nodes[key] = node
	l.pushFront(node)
}

// Remove deletes key. It reports whether the key was present.
func (l *List[K]) Remove(key K) bool {
	node, ok := l.nodes[key]
	if !ok {
		return false
	}
	l.unlink(node)
	delete(l.nodes, key)
	return true
}

// Oldest returns the least recently used key.
// Returns zero value and false if list is empty.
func (l *List[K]) Oldest() (K, bool) {
	if l.tail == nil {
		var zero K
		return zero, false
	}
	return l.tail.key, true
}

// FromOldest iterates keys from least to most recently used.
// The loop body may Remove the key it was given.
func (l *List[K]) FromOldest() iter.Seq[K] {
	return func(yield func(K) bool) {
		for node := l.tail; node != nil; {
			prev := node.prev
			if !yield(node.key) {
				return
			}
			node = prev
		}
	}
}

// Clear removes all keys.
func (l *List[K]) Clear() {
	l.head = nil
	l.tail = nil
	clear(l.nodes)
}

func (l *List[K]) pushFront(node *lruNode[K]) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
}

// unlink removes a node from the chain without touching the index.
func (l *List[K]) unlink(node *lruNode[K]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}

	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}

	node.prev = nil
	node.next = nil
}

package cache

import "fmt"

// Deque is a fixed-capacity ring of values, oldest first.
type Deque[T any] struct {
	buf        []T
	head, tail int
	count      int
}

func NewDeque[T any](max int) Deque[T] {
	if max < 1 {
		max = 1
	}
	return Deque[T]{
		buf: make([]T, max),
	}
}

func (q *Deque[T]) PushBack(elem T) error {
	if q.count == len(q.buf) {
		return fmt.Errorf("queue is full")
	}

	q.buf[q.tail] = elem
	q.tail = q.next(q.tail)
	q.count++
	return nil
}

func (q *Deque[T]) next(i int) int {
	return (i + 1) % len(q.buf)
}

// at returns the index in buf of the i'th element from the front.
func (q *Deque[T]) at(i int) int {
	return (q.head + i) % len(q.buf)
}

func (q *Deque[T]) PopFront() (elem T, ok bool) {
	if q.count == 0 {
		return
	}

	elem = q.buf[q.head]
	var zero T
	q.buf[q.head] = zero
	q.head = q.next(q.head)
	q.count--
	return elem, true
}

func (q *Deque[T]) Count() int {
	return q.count
}

func (q *Deque[T]) Max() int {
	return len(q.buf)
}

func (q *Deque[T]) Find(match func(T) bool) (elem T, ok bool) {
	for i := 0; i < q.count; i++ {
		if e := q.buf[q.at(i)]; match(e) {
			return e, true
		}
	}
	return
}

// Del removes the first match from the Deque, keeping the order of the rest.
func (q *Deque[T]) Del(match func(T) bool) {
	for i := 0; i < q.count; i++ {
		if !match(q.buf[q.at(i)]) {
			continue
		}
		for j := i; j > 0; j-- {
			q.buf[q.at(j)] = q.buf[q.at(j-1)]
		}
		q.PopFront()
		return
	}
}

func (q *Deque[T]) Clear() {
	clear(q.buf)
	q.head = 0
	q.tail = 0
	q.count = 0
}

// Package objstore implements an ID-keyed object store that remembers
// insertion order.
package objstore

type Store[T any] struct {
	objects map[uint32]T
	order   []uint32
	nextID  uint32
}

func New[T any](start uint32) *Store[T] {
	return &Store[T]{
		objects: make(map[uint32]T),
		nextID:  start,
	}
}

// Add stores obj under id. If id is zero, the next free ID is
// allocated and returned.
func (s *Store[T]) Add(id uint32, obj T) uint32 {
	if id == 0 {
		id = s.nextID
		s.nextID++
	}

	if _, ok := s.objects[id]; !ok {
		s.order = append(s.order, id)
	}
	s.objects[id] = obj
	return id
}

func (s *Store[T]) Get(id uint32) (T, bool) {
	obj, ok := s.objects[id]
	return obj, ok
}

func (s *Store[T]) Has(id uint32) bool {
	_, ok := s.objects[id]
	return ok
}

func (s *Store[T]) Delete(id uint32) {
	if _, ok := s.objects[id]; !ok {
		return
	}
	delete(s.objects, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// All calls f for each stored object in insertion order. Deleting the
// current object from within f is allowed.
func (s *Store[T]) All(f func(uint32, T)) {
	order := make([]uint32, len(s.order))
	copy(order, s.order)
	for _, id := range order {
		if obj, ok := s.objects[id]; ok {
			f(id, obj)
		}
	}
}

func (s *Store[T]) Len() int {
	return len(s.objects)
}

package board

import "fmt"

// SetContext stores a key in the shared free-form context map,
// replacing any existing value.
func (s *Store) SetContext(key, value string) error {
	if key == "" {
		return fmt.Errorf("context key is required")
	}
	return s.Update(func(d *Document) error {
		d.Context[key] = value
		return nil
	})
}

// GetContext returns the value for key and whether it is set.
func (s *Store) GetContext(key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := s.View(func(d *Document) error {
		value, ok = d.Context[key]
		return nil
	})
	return value, ok, err
}

// DeleteContext removes key from the context map. Returns false if the
// key was not set.
func (s *Store) DeleteContext(key string) (bool, error) {
	existed := false
	err := s.Apply(func(d *Document) (bool, error) {
		if _, ok := d.Context[key]; !ok {
			return false, nil
		}
		delete(d.Context, key)
		existed = true
		return true, nil
	})
	return existed, err
}

// ContextSnapshot returns a copy of the whole context map.
func (s *Store) ContextSnapshot() (map[string]string, error) {
	snapshot := make(map[string]string)
	err := s.View(func(d *Document) error {
		for k, v := range d.Context {
			snapshot[k] = v
		}
		return nil
	})
	return snapshot, err
}

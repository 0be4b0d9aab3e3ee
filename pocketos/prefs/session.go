package prefs

// Session is a scoped view of one namespace.
type Session struct {
	store    *Store
	ns       string
	readOnly bool
	dirty    bool
	closed   bool
}

func (s *Session) get(key string) (any, bool) {
	if s.closed {
		return nil, false
	}
	kv, ok := s.store.data[s.ns]
	if !ok {
		return nil, false
	}
	v, ok := kv[key]
	return v, ok
}

func (s *Session) put(key string, v any) error {
	if s.closed {
		return ErrClosed
	}
	if s.readOnly {
		return ErrReadOnly
	}
	kv, ok := s.store.data[s.ns]
	if !ok {
		kv = map[string]any{}
		s.store.data[s.ns] = kv
	}
	kv[key] = v
	s.dirty = true
	return nil
}

func (s *Session) GetString(key, def string) string {
	if v, ok := s.get(key); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return def
}

func (s *Session) GetInt(key string, def int) int {
	if v, ok := s.get(key); ok {
		switch n := v.(type) {
		case int64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

func (s *Session) GetBool(key string, def bool) bool {
	if v, ok := s.get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

func (s *Session) PutString(key, v string) error    { return s.put(key, truncate(v)) }
func (s *Session) PutInt(key string, v int) error   { return s.put(key, int64(v)) }
func (s *Session) PutBool(key string, v bool) error { return s.put(key, v) }

// Remove deletes key from the namespace.
func (s *Session) Remove(key string) error {
	if s.closed {
		return ErrClosed
	}
	if s.readOnly {
		return ErrReadOnly
	}
	if kv, ok := s.store.data[s.ns]; ok {
		if _, ok := kv[key]; ok {
			delete(kv, key)
			s.dirty = true
		}
	}
	return nil
}

// Close ends the session, writing its changes to flash.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if !s.dirty {
		return nil
	}
	return s.store.commit()
}

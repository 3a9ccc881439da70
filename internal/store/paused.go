package store

// Paused reads the persisted paused flag.
func (s *Store) Paused() (bool, error) {
	var state bool
	err := s.db.QueryRow(`SELECT state FROM paused LIMIT 1`).Scan(&state)
	if err != nil {
		return false, wrap("read paused", err)
	}
	return state, nil
}

// SetPaused stores state as the paused flag.
func (s *Store) SetPaused(state bool) error {
	_, err := s.db.Exec(`UPDATE paused SET state = ?`, state)
	return wrap("set paused", err)
}

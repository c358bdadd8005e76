package store

import yamlutil "github.com/packhouse/packline/internal/yaml"

type notesDoc struct {
	yamlutil.SchemaHeader `yaml:",inline"`
	Notes                 map[string]string `yaml:"notes"`
}

// Notes returns the free-text notes keyed by task key.
func (s *Store) Notes() (map[string]string, error) {
	var doc notesDoc
	if _, err := s.readFile(notesFile, yamlutil.FileTypeNotes, &doc); err != nil {
		return nil, err
	}
	if doc.Notes == nil {
		doc.Notes = make(map[string]string)
	}
	return doc.Notes, nil
}

// SetNote writes the note for a task key; empty text deletes it.
func (s *Store) SetNote(key, text string) error {
	s.fileMu.Lock(notesFile)
	defer s.fileMu.Unlock(notesFile)

	notes, err := s.Notes()
	if err != nil {
		return err
	}
	if text == "" {
		delete(notes, key)
	} else {
		notes[key] = text
	}
	return s.saveNotesLocked(notes)
}

// RenameNote carries a note across a task-key rename. The old and new
// keys are the same logical task crossing a stage boundary.
func (s *Store) RenameNote(oldKey, newKey string) error {
	if oldKey == newKey {
		return nil
	}
	s.fileMu.Lock(notesFile)
	defer s.fileMu.Unlock(notesFile)

	notes, err := s.Notes()
	if err != nil {
		return err
	}
	text, ok := notes[oldKey]
	if !ok {
		return nil
	}
	delete(notes, oldKey)
	notes[newKey] = text
	return s.saveNotesLocked(notes)
}

func (s *Store) saveNotesLocked(notes map[string]string) error {
	return s.writeFile(notesFile, notesDoc{
		SchemaHeader: yamlutil.NewHeader(yamlutil.FileTypeNotes),
		Notes:        notes,
	})
}

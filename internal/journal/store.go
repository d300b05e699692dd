package journal

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/dimcalc/internal/dimension"
)

const (
	metadataFile = "metadata.json"
	eventsFile   = "events.csv"
)

var csvHeader = []string{"seq", "event", "length", "width", "height", "volume", "locks", "outcome"}

type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Metadata struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Preset    string          `json:"preset,omitempty"`
	Entries   int             `json:"entries"`
	Initial   dimension.State `json:"initial"`
	Final     dimension.State `json:"final"`
}

// Save writes j under a new session directory and returns its id.
func (s *Store) Save(j *Journal) (string, error) {
	now := time.Now()
	id := fmt.Sprintf("%s_%s", now.Format("20060102-150405"), uuid.NewString()[:8])
	dir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta := Metadata{
		ID:        id,
		Timestamp: now,
		Preset:    j.Preset,
		Entries:   j.Len(),
		Initial:   j.Initial,
		Final:     j.Final(),
	}

	metaFile, err := os.Create(filepath.Join(dir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(dir, eventsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, e := range j.entries {
		row := []string{
			strconv.Itoa(e.Seq),
			e.Event.String(),
			formatFloat(e.After.Length),
			formatFloat(e.After.Width),
			formatFloat(e.After.Height),
			formatFloat(e.After.Volume),
			e.After.Locks.String(),
			e.Outcome,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return id, nil
}

// List returns every stored session, oldest first. Unreadable entries are skipped.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	sessions := make([]Metadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		sessions = append(sessions, *meta)
	}

	sort.Slice(sessions, func(a, b int) bool {
		return sessions[a].Timestamp.Before(sessions[b].Timestamp)
	})
	return sessions, nil
}

func (s *Store) Load(id string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("journal: %s: %w", id, err)
	}
	return &meta, nil
}

// LoadJournal rebuilds the journal of session id from disk.
func (s *Store) LoadJournal(id string) (*Journal, error) {
	meta, err := s.Load(id)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, id, eventsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(csvHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("journal: %s: %w", id, err)
	}

	j := New(meta.Initial)
	j.Preset = meta.Preset
	before := meta.Initial
	for i, record := range records {
		if i == 0 {
			continue
		}
		e, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("journal: %s row %d: %w", id, i, err)
		}
		e.Before = before
		before = e.After
		j.entries = append(j.entries, e)
	}
	return j, nil
}

// ExportJSON writes the metadata and entries of session id to w.
func (s *Store) ExportJSON(w io.Writer, id string) error {
	meta, err := s.Load(id)
	if err != nil {
		return err
	}
	j, err := s.LoadJournal(id)
	if err != nil {
		return err
	}

	data := struct {
		*Metadata
		Events []Entry `json:"events"`
	}{meta, j.Entries()}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func parseRow(record []string) (Entry, error) {
	var e Entry
	seq, err := strconv.Atoi(record[0])
	if err != nil {
		return e, err
	}
	ev, err := dimension.ParseEvent(record[1])
	if err != nil {
		return e, err
	}

	vals := make([]float64, 4)
	for i := range vals {
		vals[i], err = strconv.ParseFloat(record[2+i], 64)
		if err != nil {
			return e, err
		}
	}
	locks, err := dimension.ParseLockSet(record[6])
	if err != nil {
		return e, err
	}

	e.Seq = seq
	e.Event = ev
	e.After = dimension.State{Length: vals[0], Width: vals[1], Height: vals[2], Volume: vals[3], Locks: locks}
	e.Outcome = record[7]
	return e, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

package journal

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/dimcalc/internal/dimension"
)

func session(t *testing.T) *Journal {
	t.Helper()
	j := New(dimension.NewState())
	ctrl := dimension.NewController(dimension.NewState())
	j.Attach(ctrl)

	ctrl.SetLength(20)
	ctrl.ToggleLock(dimension.Volume)
	ctrl.SetWidth(4)
	ctrl.SetVolume(10)
	return j
}

func TestJournalRecord(t *testing.T) {
	j := session(t)

	require.Equal(t, 4, j.Len())
	entries := j.Entries()
	assert.Equal(t, 1, entries[0].Seq)
	assert.Equal(t, OutcomeOK, entries[0].Outcome)
	assert.Equal(t, 2000.0, entries[0].After.Volume)
	assert.Equal(t, entries[0].After, entries[1].Before)
	assert.Equal(t, dimension.ErrLocked.Error(), entries[3].Outcome)

	final := j.Final()
	assert.Equal(t, 2000.0, final.Volume)
	assert.InDelta(t, 2000.0/(20*4), final.Height, 1e-9)
}

func TestJournalSeries(t *testing.T) {
	j := session(t)
	assert.Equal(t, []float64{1000, 2000, 2000, 2000, 2000}, j.Series(dimension.Volume))
	assert.Equal(t, []float64{10, 20, 20, 20, 20}, j.Series(dimension.Length))
}

func TestReplayReproducesFinal(t *testing.T) {
	j := session(t)
	replayed := Replay(j.Initial, j.Events())

	assert.Equal(t, j.Final(), replayed.Final())
	assert.Equal(t, j.Entries(), replayed.Entries())
}

func TestStoreSaveLoad(t *testing.T) {
	st := NewStore(t.TempDir())
	require.NoError(t, st.Init())

	j := session(t)
	j.Preset = "cube"
	id, err := st.Save(j)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	meta, err := st.Load(id)
	require.NoError(t, err)
	assert.Equal(t, "cube", meta.Preset)
	assert.Equal(t, 4, meta.Entries)
	assert.Equal(t, j.Final(), meta.Final)
	assert.Equal(t, dimension.NewState(), meta.Initial)

	loaded, err := st.LoadJournal(id)
	require.NoError(t, err)
	assert.Equal(t, j.Entries(), loaded.Entries())

	replayed := Replay(loaded.Initial, loaded.Events())
	assert.Equal(t, meta.Final, replayed.Final())
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := NewStore(dir)
	require.NoError(t, st.Init())

	sessions, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, err = st.Save(session(t))
	require.NoError(t, err)
	_, err = st.Save(New(dimension.NewState()))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "junk"), 0755))

	sessions, err = st.List()
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestStoreListMissingDir(t *testing.T) {
	st := NewStore(filepath.Join(t.TempDir(), "missing"))
	sessions, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestExportJSON(t *testing.T) {
	st := NewStore(t.TempDir())
	id, err := st.Save(session(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportJSON(&buf, id))

	var out struct {
		ID     string `json:"id"`
		Events []struct {
			Event   string `json:"event"`
			Outcome string `json:"outcome"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, id, out.ID)
	require.Len(t, out.Events, 4)
	assert.Equal(t, "set:length=20", out.Events[0].Event)
	assert.Equal(t, "lock:volume", out.Events[1].Event)
}

package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type nestedRecord struct {
	ID    int               `json:"id"`
	Name  string            `json:"name"`
	Tags  []string          `json:"tags"`
	Meta  map[string]string `json:"meta"`
	Child *nestedRecord     `json:"child,omitempty"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(t.TempDir(), "fleet")

	in := []nestedRecord{
		{
			ID:   1,
			Name: "tractor",
			Tags: []string{"a", "b"},
			Meta: map[string]string{"field": "norte"},
			Child: &nestedRecord{
				ID:   2,
				Name: "child",
			},
		},
		{ID: 3, Name: "empty"},
	}
	store.Save("machinery", in)

	var out []nestedRecord
	require.True(t, store.Load("machinery", &out))
	require.Equal(t, in, out)
}

func TestLoadMissingKeyLeavesDefault(t *testing.T) {
	store := New(t.TempDir(), "fleet")

	out := []nestedRecord{{ID: 99, Name: "default"}}
	require.False(t, store.Load("nope", &out))
	require.Equal(t, []nestedRecord{{ID: 99, Name: "default"}}, out)
}

func TestLoadMalformedSnapshotLeavesDefault(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, "fleet")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fleet_bad.json"), []byte("{not json"), 0o644))

	var out []nestedRecord
	require.False(t, store.Load("bad", &out))
	require.Nil(t, out)
}

func TestClearRemovesOnlyNamespacedKeys(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, "fleet")
	store.Save("machinery", []int{1})
	store.Save("work_orders", []int{2})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other_app.json"), []byte("[]"), 0o644))

	store.Clear()

	var out []int
	require.False(t, store.Load("machinery", &out))
	require.False(t, store.Load("work_orders", &out))
	_, err := os.Stat(filepath.Join(dir, "other_app.json"))
	require.NoError(t, err)
}

func TestSaveToUnwritableDirIsSwallowed(t *testing.T) {
	store := New(filepath.Join(string(os.PathSeparator), "dev", "null", "nope"), "fleet")
	store.Save("machinery", []int{1})

	var out []int
	require.False(t, store.Load("machinery", &out))
}

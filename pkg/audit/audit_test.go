package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordAndGet(t *testing.T) {
	store := openTestStore(t)

	key := []byte{0x01}
	value := []byte{0x02, 0x03}

	id, err := store.Record(key, value, "decode record: malformed record")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	entry, err := store.Get(id)
	require.NoError(t, err)

	assert.Equal(t, id, entry.ID)
	assert.Equal(t, key, entry.Key)
	assert.Equal(t, value, entry.Value)
	assert.Equal(t, "decode record: malformed record", entry.Reason)
	assert.False(t, entry.At.IsZero())
}

func TestStore_NilKey(t *testing.T) {
	store := openTestStore(t)

	id, err := store.Record(nil, []byte("value"), "")
	require.NoError(t, err)

	entry, err := store.Get(id)
	require.NoError(t, err)
	assert.Nil(t, entry.Key)
	assert.Empty(t, entry.Reason)
}

func TestStore_List(t *testing.T) {
	store := openTestStore(t)

	var ids []string
	for i := 0; i < 5; i++ {
		id, err := store.Record([]byte{byte(i)}, []byte("v"), "")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	listed, err := store.List(10)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, listed)

	limited, err := store.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestStore_Delete(t *testing.T) {
	store := openTestStore(t)

	id, err := store.Record([]byte("k"), []byte("v"), "")
	require.NoError(t, err)

	require.NoError(t, store.Delete(id))

	_, err = store.Get(id)
	assert.Error(t, err)
}

func TestStore_InvalidID(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get("not-a-ksuid")
	assert.Error(t, err)

	assert.Error(t, store.Delete("not-a-ksuid"))
}

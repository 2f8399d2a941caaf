package sqlitestore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/davidmrtn/jobtree/pkg/errors"
	"github.com/davidmrtn/jobtree/pkg/namespace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobtree.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestOpenEmpty(t *testing.T) {
	store, _ := openTempStore(t)

	assert.True(t, store.Root().IsRoot())
	assert.Len(t, store.Folders(), 1)
}

func TestCreateAndLookup(t *testing.T) {
	store, _ := openTempStore(t)

	folder, err := store.CreateFolder(nil, "team-a")
	require.NoError(t, err)
	job, err := store.CreateJob(folder, "build-app", "<project/>")
	require.NoError(t, err)

	assert.Same(t, folder, store.Lookup("team-a"))
	assert.Same(t, job, store.Lookup("team-a/build-app"))
	assert.Contains(t, job.Config(), "<project/>")
}

func TestCreateDuplicateFails(t *testing.T) {
	store, _ := openTempStore(t)

	_, err := store.CreateFolder(nil, "team-a")
	require.NoError(t, err)
	_, err = store.CreateFolder(nil, "team-a")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNameTaken))
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobtree.db")

	store, err := Open(path)
	require.NoError(t, err)
	folder, err := store.CreateFolder(nil, "team-a")
	require.NoError(t, err)
	inner, err := store.CreateFolder(folder, "inner")
	require.NoError(t, err)
	job, err := store.CreateJob(inner, "build-app", "")
	require.NoError(t, err)
	jobID := job.ID()
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got := reopened.Lookup("team-a/inner/build-app")
	require.NotNil(t, got)
	assert.Equal(t, jobID, got.ID(), "identity survives a reload")
	assert.Equal(t, namespace.KindJob, got.Kind())
}

func TestMovePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobtree.db")

	store, err := Open(path)
	require.NoError(t, err)
	origin, err := store.CreateFolder(nil, "origin")
	require.NoError(t, err)
	dst, err := store.CreateFolder(nil, "dst")
	require.NoError(t, err)
	job, err := store.CreateJob(origin, "build-app", "")
	require.NoError(t, err)

	moved, err := store.Move(job, dst)
	require.NoError(t, err)
	assert.Equal(t, "dst/build-app", moved.FullName())
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	assert.Nil(t, reopened.Lookup("origin/build-app"))
	got := reopened.Lookup("dst/build-app")
	require.NotNil(t, got)
	assert.Equal(t, job.ID(), got.ID())
}

func TestMoveRejectsCollision(t *testing.T) {
	store, _ := openTempStore(t)

	origin, err := store.CreateFolder(nil, "origin")
	require.NoError(t, err)
	dst, err := store.CreateFolder(nil, "dst")
	require.NoError(t, err)
	job, err := store.CreateJob(origin, "build-app", "")
	require.NoError(t, err)
	_, err = store.CreateJob(dst, "build-app", "")
	require.NoError(t, err)

	_, err = store.Move(job, dst)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNameTaken))
	assert.Equal(t, "origin/build-app", job.FullName(), "failed move leaves the item in place")
}

func TestBuildHistorySurvivesMove(t *testing.T) {
	store, _ := openTempStore(t)

	origin, err := store.CreateFolder(nil, "origin")
	require.NoError(t, err)
	dst, err := store.CreateFolder(nil, "dst")
	require.NoError(t, err)
	job, err := store.CreateJob(origin, "build-app", "")
	require.NoError(t, err)

	require.NoError(t, store.RecordBuild(job, namespace.Build{Number: 1, Status: "success", Started: time.Now()}))
	require.NoError(t, store.RecordBuild(job, namespace.Build{Number: 2, Status: "failure", Started: time.Now()}))

	_, err = store.Move(job, dst)
	require.NoError(t, err)

	builds, err := store.Builds(job)
	require.NoError(t, err)
	require.Len(t, builds, 2)
	assert.Equal(t, 1, builds[0].Number)
	assert.Equal(t, "failure", builds[1].Status)
}

func TestRecordBuildOnFolderFails(t *testing.T) {
	store, _ := openTempStore(t)

	folder, err := store.CreateFolder(nil, "team-a")
	require.NoError(t, err)

	err = store.RecordBuild(folder, namespace.Build{Number: 1, Status: "success"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

package relocate

import (
	"fmt"
	"testing"

	"github.com/davidmrtn/jobtree/pkg/auth"
	"github.com/davidmrtn/jobtree/pkg/namespace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuth is an Authorizer with scriptable denials and call counters.
type fakeAuth struct {
	user     string
	admin    bool
	denied   map[string]bool
	hasCalls int
}

func (f *fakeAuth) User() string { return f.user }

func (f *fakeAuth) Has(perm auth.Permission, fullName string) bool {
	f.hasCalls++
	return !f.denied[fullName]
}

func (f *fakeAuth) CheckAdmin() error {
	if f.admin {
		return nil
	}
	return fmt.Errorf("user '%s' does not have administer permission", f.user)
}

func allowAll() *fakeAuth { return &fakeAuth{user: "tester", admin: true} }

// moveHandler performs moves through the tree. Applicability is limited to
// the configured kind; destinations are every folder in the tree.
type moveHandler struct {
	tree  *namespace.Tree
	kind  namespace.Kind
	calls int
}

func (h *moveHandler) Name() string { return "move-" + h.kind.String() }

func (h *moveHandler) Applicability(item *namespace.Node) HandlingMode {
	if item.Kind() == h.kind {
		return ModeHandle
	}
	return ModeSkip
}

func (h *moveHandler) Destinations(item *namespace.Node) []*namespace.Node {
	return h.tree.Folders()
}

func (h *moveHandler) Handle(item, dest *namespace.Node, rest []Handler) (*namespace.Node, error) {
	h.calls++
	return h.tree.Move(item, dest)
}

// moverFixture is a tree with an origin folder, a dst folder, and two jobs
// inside origin.
type moverFixture struct {
	tree    *namespace.Tree
	origin  *namespace.Node
	dst     *namespace.Node
	jobA    *namespace.Node
	jobB    *namespace.Node
	handler *moveHandler
	auth    *fakeAuth
}

func newFixture(t *testing.T) *moverFixture {
	t.Helper()
	tree := namespace.NewTree()

	origin, err := tree.CreateFolder(nil, "origin")
	require.NoError(t, err)
	dst, err := tree.CreateFolder(nil, "dst")
	require.NoError(t, err)
	jobA, err := tree.CreateJob(origin, "job-a", "")
	require.NoError(t, err)
	jobB, err := tree.CreateJob(origin, "job-b", "")
	require.NoError(t, err)

	return &moverFixture{
		tree:    tree,
		origin:  origin,
		dst:     dst,
		jobA:    jobA,
		jobB:    jobB,
		handler: &moveHandler{tree: tree, kind: namespace.KindJob},
		auth:    allowAll(),
	}
}

func (f *moverFixture) mover() *Mover {
	return NewMover(f.tree, f.auth, []Handler{f.handler})
}

func TestRunMovesItems(t *testing.T) {
	f := newFixture(t)

	result := f.mover().Run(Request{Folder: "dst", Items: []*namespace.Node{f.jobA, f.jobB}})

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, CodeSuccess, result.Code)
	assert.Equal(t, msgFinished, result.Message)
	require.Len(t, result.Outputs, 2)
	assert.Equal(t, "origin/job-a", result.Outputs[0].Subject)
	assert.Contains(t, result.Outputs[0].Message, "Successfully moved to 'dst'")
	assert.Contains(t, result.Outputs[0].Message, "dst/job-a")
	assert.Equal(t, "dst/job-a", f.jobA.FullName())
	assert.Equal(t, "dst/job-b", f.jobB.FullName())
}

func TestRunMoveToRootToken(t *testing.T) {
	for _, token := range []string{"jenkins", "Jenkins", "JENKINS", ""} {
		t.Run(fmt.Sprintf("token %q", token), func(t *testing.T) {
			f := newFixture(t)

			result := f.mover().Run(Request{Folder: token, Items: []*namespace.Node{f.jobA}})

			require.Equal(t, StatusSuccess, result.Status, result.String())
			require.Len(t, result.Outputs, 1)
			assert.Contains(t, result.Outputs[0].Message, fmt.Sprintf("Successfully moved to '%s'", token))
			assert.Equal(t, "job-a", f.jobA.FullName())
			assert.Same(t, f.tree.Root(), f.jobA.Parent())
		})
	}
}

func TestRunDestinationWithLeadingSlash(t *testing.T) {
	f := newFixture(t)

	result := f.mover().Run(Request{Folder: "/dst", Items: []*namespace.Node{f.jobA}})

	assert.Equal(t, StatusSuccess, result.Status, result.String())
	assert.Equal(t, "dst/job-a", f.jobA.FullName())
}

func TestRunSkipsItemsAlreadyAtDestination(t *testing.T) {
	f := newFixture(t)
	// jobA already lives in dst; jobB still needs the move.
	_, err := f.tree.Move(f.jobA, f.dst)
	require.NoError(t, err)
	f.handler.calls = 0

	result := f.mover().Run(Request{Folder: "dst", Items: []*namespace.Node{f.jobA, f.jobB}})

	assert.Equal(t, StatusSuccess, result.Status)
	require.Len(t, result.Outputs, 2)
	assert.Equal(t, "The item is already in the 'dst' folder. Skipping", result.Outputs[0].Message)
	assert.Contains(t, result.Outputs[1].Message, "Successfully moved to 'dst'")
	assert.Equal(t, 1, f.handler.calls, "no handler runs for the skipped item")
}

func TestRunValidationIsExhaustive(t *testing.T) {
	f := newFixture(t)
	// A folder item has no handler, so its destination never resolves.
	subFolder, err := f.tree.CreateFolder(f.origin, "sub")
	require.NoError(t, err)
	f.auth.admin = false
	f.auth.denied = map[string]bool{
		"origin/job-a": true,
		"origin/job-b": true,
	}

	result := f.mover().Run(Request{
		Folder: "dst",
		Items:  []*namespace.Node{f.jobA, subFolder, f.jobB},
	})

	assert.Equal(t, StatusFailure, result.Status)
	assert.Equal(t, CodeValidation, result.Code)
	assert.Equal(t, msgValidationError, result.Message)
	require.Len(t, result.Outputs, 3, "every problem is reported at once")
	assert.Equal(t, Output{"origin/job-a", msgNoPermission}, result.Outputs[0])
	assert.Equal(t, Output{"origin/sub", "dst is not a valid destination for this element"}, result.Outputs[1])
	assert.Equal(t, Output{"origin/job-b", msgNoPermission}, result.Outputs[2])
	assert.Equal(t, "origin/job-a", f.jobA.FullName(), "nothing is moved on validation failure")
}

func TestRunMissingDestination(t *testing.T) {
	f := newFixture(t)

	result := f.mover().Run(Request{Folder: "missing", Items: []*namespace.Node{f.jobA, f.jobB}})

	assert.Equal(t, StatusFailure, result.Status)
	assert.Equal(t, CodeValidation, result.Code)
	require.NotEmpty(t, result.Outputs)
	assert.Equal(t, Output{"missing", msgNoDestination}, result.Outputs[0])
	assert.Equal(t, "origin/job-a", f.jobA.FullName())
	assert.Equal(t, "origin/job-b", f.jobB.FullName())
}

func TestRunCreateRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	f.auth.admin = false

	result := f.mover().Run(Request{Folder: "brand/new", Items: []*namespace.Node{f.jobA}, Create: true})

	assert.Equal(t, StatusFailure, result.Status)
	assert.Equal(t, CodeError, result.Code)
	assert.Equal(t, msgAdminOnly, result.Message)
	assert.Empty(t, result.Outputs)
	assert.Equal(t, 0, f.auth.hasCalls, "no validation happens after the admin check fails")
	assert.Nil(t, f.tree.Lookup("brand"), "no folders are created")
}

func TestRunCreateBuildsMissingPath(t *testing.T) {
	f := newFixture(t)

	result := f.mover().Run(Request{Folder: "a/b/c", Items: []*namespace.Node{f.jobA}, Create: true})

	require.Equal(t, StatusSuccess, result.Status, result.String())
	require.NotNil(t, f.tree.Lookup("a/b/c"))
	assert.Equal(t, "a/b/c/job-a", f.jobA.FullName())
}

func TestRunCreateConflict(t *testing.T) {
	f := newFixture(t)
	a, err := f.tree.CreateFolder(nil, "a")
	require.NoError(t, err)
	_, err = f.tree.CreateJob(a, "b", "")
	require.NoError(t, err)

	result := f.mover().Run(Request{Folder: "a/b/c", Items: []*namespace.Node{f.jobA}, Create: true})

	assert.Equal(t, StatusFailure, result.Status)
	assert.Equal(t, CodeError, result.Code)
	assert.Equal(t, "Error trying to create the destination folder. 'a/b' is not a folder. Aborting", result.Message)
	assert.Nil(t, f.tree.Lookup("a/b/c"))
}

func TestRunPerItemFailureDoesNotAbortBatch(t *testing.T) {
	f := newFixture(t)
	// A name collision at the destination makes jobA's move fail.
	_, err := f.tree.CreateJob(f.dst, "job-a", "")
	require.NoError(t, err)

	result := f.mover().Run(Request{Folder: "dst", Items: []*namespace.Node{f.jobA, f.jobB}})

	assert.Equal(t, StatusSuccess, result.Status, "batch partial failure is content, not exit status")
	assert.Equal(t, CodeSuccess, result.Code)
	require.Len(t, result.Outputs, 2)
	assert.Contains(t, result.Outputs[0].Message, "Failed trying to move the item:")
	assert.Contains(t, result.Outputs[0].Message, "already exists")
	assert.Contains(t, result.Outputs[1].Message, "Successfully moved to 'dst'")
	assert.Equal(t, "origin/job-a", f.jobA.FullName())
	assert.Equal(t, "dst/job-b", f.jobB.FullName())
}

func TestRunChainExhaustedSurfacesAsItemFailure(t *testing.T) {
	f := newFixture(t)
	delegating := &fakeHandler{
		name:      "delegating",
		mode:      ModeHandle,
		dests:     f.tree.Folders(),
		delegates: true,
	}
	m := NewMover(f.tree, f.auth, []Handler{delegating})

	result := m.Run(Request{Folder: "dst", Items: []*namespace.Node{f.jobA}})

	assert.Equal(t, StatusSuccess, result.Status)
	require.Len(t, result.Outputs, 1)
	assert.Contains(t, result.Outputs[0].Message, "Failed trying to move the item: handler chain exhausted")
	assert.Equal(t, "origin/job-a", f.jobA.FullName())
}

func TestExecuteNoApplicableHandler(t *testing.T) {
	f := newFixture(t)
	m := f.mover()

	// The folder item has no applicable handler; it must not disturb the
	// processing of its neighbors.
	folderItem, err := f.tree.CreateFolder(f.origin, "sub")
	require.NoError(t, err)

	outputs := m.execute([]*namespace.Node{f.jobA, folderItem, f.jobB}, f.dst, "dst")

	require.Len(t, outputs, 3)
	assert.Contains(t, outputs[0].Message, "Successfully moved to 'dst'")
	assert.Equal(t, Output{"origin/sub", msgNoHandler}, outputs[1])
	assert.Contains(t, outputs[2].Message, "Successfully moved to 'dst'")
	assert.Equal(t, "origin/sub", folderItem.FullName(), "the unhandled item is untouched")
}

func TestResultString(t *testing.T) {
	r := &Result{
		Status:  StatusFailure,
		Message: "Error validating inputs",
		Outputs: []Output{
			{"dst", "Destination folder does not exist"},
			{"origin/job-a", "You don't have permissions to move this element"},
		},
	}

	want := "[FAILURE]: Error validating inputs" +
		"\n\t> dst: Destination folder does not exist" +
		"\n\t> origin/job-a: You don't have permissions to move this element"
	assert.Equal(t, want, r.String())
}

func TestResultStringWithoutOutputs(t *testing.T) {
	r := &Result{Status: StatusSuccess, Message: "Command finished"}
	assert.Equal(t, "[SUCCESS]: Command finished", r.String())
}

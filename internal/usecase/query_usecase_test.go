package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
)

func newQueryFixture(t *testing.T) (*lifecycleFixture, *domain.LoanApplication) {
	t.Helper()
	f := newLifecycleFixture(newFakeKamDirectory())
	app, err := f.uc.CreateApplication(context.Background(), clientIdentity, CreateApplicationRequest{AssignedKamID: "KAM1"})
	require.NoError(t, err)
	return f, app
}

func TestRaiseQuery(t *testing.T) {
	f, app := newQueryFixture(t)
	ctx := context.Background()

	view, err := f.queries.RaiseQuery(ctx, kamIdentity, app.ID, RaiseQueryRequest{
		TargetRole: domain.RoleClient,
		Message:    "Share the latest GST returns",
	})
	require.NoError(t, err)

	assert.Empty(t, view.ParentID)
	assert.Equal(t, domain.QueryStatusOpen, view.Status)
	assert.Equal(t, "kam@example.com", view.AuthorID)
	assert.Equal(t, domain.RoleClient, view.TargetRole)
	assert.Equal(t, "Share the latest GST returns", view.Message)

	// Addressed role is notified
	require.Len(t, f.notifier.notifications, 1)
	assert.Equal(t, domain.RoleClient, f.notifier.notifications[0].TargetRole)

	t.Run("empty message rejected", func(t *testing.T) {
		_, err := f.queries.RaiseQuery(ctx, kamIdentity, app.ID, RaiseQueryRequest{TargetRole: domain.RoleClient})
		assert.Error(t, err)
	})

	t.Run("unknown target role rejected", func(t *testing.T) {
		_, err := f.queries.RaiseQuery(ctx, kamIdentity, app.ID, RaiseQueryRequest{
			TargetRole: domain.Role("board"),
			Message:    "hello",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidRole)
	})

	t.Run("invisible file rejected", func(t *testing.T) {
		stranger := domain.Identity{Email: "x@example.com", Role: domain.RoleClient, ClientID: "C99"}
		_, err := f.queries.RaiseQuery(ctx, stranger, app.ID, RaiseQueryRequest{
			TargetRole: domain.RoleKam,
			Message:    "hello",
		})
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})
}

func TestReplyQuery(t *testing.T) {
	f, app := newQueryFixture(t)
	ctx := context.Background()

	root, err := f.queries.RaiseQuery(ctx, kamIdentity, app.ID, RaiseQueryRequest{
		TargetRole: domain.RoleClient,
		Message:    "Missing documents",
	})
	require.NoError(t, err)

	reply, err := f.queries.ReplyQuery(ctx, clientIdentity, app.ID, root.ID, "Uploaded")
	require.NoError(t, err)
	assert.Equal(t, root.ID, reply.ParentID)
	assert.Equal(t, "client@example.com", reply.AuthorID)

	// Replying to a reply still chains to the root
	nested, err := f.queries.ReplyQuery(ctx, kamIdentity, app.ID, reply.ID, "Thanks, checking")
	require.NoError(t, err)
	assert.Equal(t, root.ID, nested.ParentID)

	t.Run("unknown thread id", func(t *testing.T) {
		_, err := f.queries.ReplyQuery(ctx, clientIdentity, app.ID, "qry_missing", "hello")
		assert.ErrorIs(t, err, domain.ErrQueryNotFound)
	})
}

func TestResolveQueryAuthorOnly(t *testing.T) {
	f, app := newQueryFixture(t)
	ctx := context.Background()

	root, err := f.queries.RaiseQuery(ctx, clientIdentity, app.ID, RaiseQueryRequest{
		TargetRole: domain.RoleKam,
		Message:    "When will my file move forward?",
	})
	require.NoError(t, err)

	t.Run("higher-privileged non-author is rejected", func(t *testing.T) {
		_, err := f.queries.ResolveQuery(ctx, creditIdentity, app.ID, root.ID)
		assert.ErrorIs(t, err, domain.ErrNotQueryAuthor)
		assert.EqualError(t, domain.ErrNotQueryAuthor, "Only the query author can resolve this query")
	})

	t.Run("addressed role is still not the author", func(t *testing.T) {
		_, err := f.queries.ResolveQuery(ctx, kamIdentity, app.ID, root.ID)
		assert.ErrorIs(t, err, domain.ErrNotQueryAuthor)
	})

	t.Run("author resolves and status flips", func(t *testing.T) {
		view, err := f.queries.ResolveQuery(ctx, clientIdentity, app.ID, root.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.QueryStatusResolved, view.Status)
		assert.Equal(t, 1, f.auditRepo.countByAction(domain.AuditActionQueryResolved))

		stored, err := f.queryRepo.FindByID(ctx, root.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.QueryStatusResolved, stored.Status())
	})

	t.Run("resolving a reply id targets the root", func(t *testing.T) {
		_, err := f.queries.ReopenQuery(ctx, clientIdentity, app.ID, root.ID)
		require.NoError(t, err)

		reply, err := f.queries.ReplyQuery(ctx, kamIdentity, app.ID, root.ID, "Reopening discussion")
		require.NoError(t, err)

		// The reply's author is not the root's author
		_, err = f.queries.ResolveQuery(ctx, kamIdentity, app.ID, reply.ID)
		assert.ErrorIs(t, err, domain.ErrNotQueryAuthor)

		view, err := f.queries.ResolveQuery(ctx, clientIdentity, app.ID, reply.ID)
		require.NoError(t, err)
		assert.Equal(t, root.ID, view.ID)
	})
}

func TestRedundantThreadStatusFlips(t *testing.T) {
	f, app := newQueryFixture(t)
	ctx := context.Background()

	root, err := f.queries.RaiseQuery(ctx, kamIdentity, app.ID, RaiseQueryRequest{
		TargetRole: domain.RoleClient,
		Message:    "Confirm the registered office address",
	})
	require.NoError(t, err)

	t.Run("reopening an open thread is rejected", func(t *testing.T) {
		_, err := f.queries.ReopenQuery(ctx, kamIdentity, app.ID, root.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
		assert.Equal(t, 0, f.auditRepo.countByAction(domain.AuditActionQueryReopened))
	})

	_, err = f.queries.ResolveQuery(ctx, kamIdentity, app.ID, root.ID)
	require.NoError(t, err)
	notifications := len(f.notifier.notifications)

	t.Run("resolving a resolved thread is rejected", func(t *testing.T) {
		_, err := f.queries.ResolveQuery(ctx, kamIdentity, app.ID, root.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)

		// No second audit entry and no extra notification for a change
		// that never happened
		assert.Equal(t, 1, f.auditRepo.countByAction(domain.AuditActionQueryResolved))
		assert.Len(t, f.notifier.notifications, notifications)

		stored, err := f.queryRepo.FindByID(ctx, root.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.QueryStatusResolved, stored.Status())
	})
}

func TestResolveQueryNotFound(t *testing.T) {
	f, app := newQueryFixture(t)
	ctx := context.Background()

	// Regardless of caller role
	_, err := f.queries.ResolveQuery(ctx, creditIdentity, app.ID, "qry_missing")
	assert.ErrorIs(t, err, domain.ErrQueryNotFound)
	assert.EqualError(t, domain.ErrQueryNotFound, "Query not found")

	_, err = f.queries.ResolveQuery(ctx, clientIdentity, app.ID, "qry_missing")
	assert.ErrorIs(t, err, domain.ErrQueryNotFound)
}

func TestResolveQueryEmptyAuthorEscapeHatch(t *testing.T) {
	f, app := newQueryFixture(t)
	ctx := context.Background()

	// A legacy row with no stored author may be resolved by anyone
	legacy := &domain.Query{
		ID:      "qry_legacy",
		FileID:  app.FileID,
		Content: domain.BuildQueryContent("orphaned question", domain.QueryContentOptions{}),
	}
	require.NoError(t, f.queryRepo.Create(ctx, legacy))

	view, err := f.queries.ResolveQuery(ctx, creditIdentity, app.ID, legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QueryStatusResolved, view.Status)
}

func TestReopenQuery(t *testing.T) {
	f, app := newQueryFixture(t)
	ctx := context.Background()

	root, err := f.queries.RaiseQuery(ctx, kamIdentity, app.ID, RaiseQueryRequest{
		TargetRole: domain.RoleClient,
		Message:    "Verify the address proof",
	})
	require.NoError(t, err)

	_, err = f.queries.ResolveQuery(ctx, kamIdentity, app.ID, root.ID)
	require.NoError(t, err)

	// Reopen follows the same author-only rule
	_, err = f.queries.ReopenQuery(ctx, clientIdentity, app.ID, root.ID)
	assert.ErrorIs(t, err, domain.ErrNotQueryAuthor)

	view, err := f.queries.ReopenQuery(ctx, kamIdentity, app.ID, root.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QueryStatusOpen, view.Status)
	assert.Equal(t, 1, f.auditRepo.countByAction(domain.AuditActionQueryReopened))
}

func TestListQueries(t *testing.T) {
	f, app := newQueryFixture(t)
	ctx := context.Background()

	root, err := f.queries.RaiseQuery(ctx, kamIdentity, app.ID, RaiseQueryRequest{
		TargetRole: domain.RoleClient,
		Message:    "First question",
	})
	require.NoError(t, err)
	_, err = f.queries.ReplyQuery(ctx, clientIdentity, app.ID, root.ID, "First answer")
	require.NoError(t, err)

	views, err := f.queries.ListQueries(ctx, clientIdentity, app.ID)
	require.NoError(t, err)
	assert.Len(t, views, 2)

	// A foreign client sees nothing, not even existence
	stranger := domain.Identity{Email: "x@example.com", Role: domain.RoleClient, ClientID: "C99"}
	_, err = f.queries.ListQueries(ctx, stranger, app.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/musehabit-server/internal/model"
	repo "github.com/dtroode/musehabit-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "musehabit_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/musehabit_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func connect(t *testing.T) *repo.Connection {
	t.Helper()
	conn, err := repo.NewConnection(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func createUser(t *testing.T, ur *repo.UserRepository, username string, joined time.Time) model.User {
	t.Helper()
	u, err := ur.Create(context.Background(), model.User{
		ID:        uuid.New(),
		Email:     username + "@example.com",
		Username:  username,
		JoinedAt:  joined,
		CreatedAt: joined,
		UpdatedAt: joined,
	})
	require.NoError(t, err)
	return u
}

func TestUserRepository_Integration(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	ur := repo.NewUserRepository(conn)
	joined := time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC)

	u := createUser(t, ur, "integration-ada", joined)

	got, err := ur.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LatestPostAt)
	assert.True(t, got.JoinedAt.Equal(joined))

	exists, err := ur.UsernameExists(ctx, "integration-ada")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = ur.Create(ctx, model.User{ID: uuid.New(), Email: "other@example.com", Username: "integration-ada", JoinedAt: joined})
	assert.ErrorIs(t, err, model.ErrUsernameTaken)

	updated, err := ur.UpdatePreferences(ctx, u.ID, model.NotificationPrefs{OneDay: true})
	require.NoError(t, err)
	assert.True(t, updated.Prefs.OneDay)

	var seen int
	after := uuid.Nil
	for {
		page, err := ur.ListPage(ctx, after, 1)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		seen += len(page)
		after = page[len(page)-1].ID
	}
	assert.GreaterOrEqual(t, seen, 1)
}

func TestPostRepository_ConcurrentPublish(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	ur := repo.NewUserRepository(conn)
	pr := repo.NewPostRepository(conn)

	u := createUser(t, ur, "integration-race", time.Now().Add(-40*24*time.Hour))

	// Only one of two simultaneous publishes may pass a "never posted" check.
	check := func(author model.User) error {
		if author.LatestPostAt != nil {
			return &model.CadenceError{DaysUntilNextPost: 30}
		}
		return nil
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pr.Publish(ctx, model.Post{
				ID:          uuid.New(),
				UserID:      u.ID,
				Title:       "piece",
				PublishedAt: time.Now().UTC(),
			}, check)
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}()
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, model.ErrCannotPostYet):
			rejected++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, rejected)
}

func TestDeliveryAndRunRepositories_Integration(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	ur := repo.NewUserRepository(conn)
	dr := repo.NewDeliveryRepository(conn)
	rr := repo.NewRunRepository(conn)

	u := createUser(t, ur, "integration-delivery", time.Now().Add(-27*24*time.Hour))
	runDate := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	ok, err := dr.Claim(ctx, u.ID, runDate, "three_day")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = dr.Claim(ctx, u.ID, runDate, "three_day")
	require.NoError(t, err)
	assert.False(t, ok, "pending delivery must not be claimed twice")

	require.NoError(t, dr.Complete(ctx, u.ID, runDate, "three_day", model.DeliveryFailed, "smtp down"))
	ok, err = dr.Claim(ctx, u.ID, runDate, "three_day")
	require.NoError(t, err)
	assert.True(t, ok, "failed delivery may be retried")

	require.NoError(t, dr.Complete(ctx, u.ID, runDate, "three_day", model.DeliverySent, ""))
	ok, err = dr.Claim(ctx, u.ID, runDate, "three_day")
	require.NoError(t, err)
	assert.False(t, ok)

	started := time.Now().UTC()
	first, second := uuid.New(), uuid.New()

	ok, err = rr.Claim(ctx, runDate, first, started, 2*time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = rr.Claim(ctx, runDate, second, started.Add(time.Minute), 2*time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "fresh running marker blocks a second run")

	ok, err = rr.Claim(ctx, runDate, second, started.Add(3*time.Hour), 2*time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "stale running marker is taken over")

	report := model.RunReport{RunID: second, RunDate: runDate, StartedAt: started, FinishedAt: started.Add(time.Minute), Sent: 1}
	require.NoError(t, rr.Finish(ctx, report, model.RunCompleted))

	got, status, err := rr.Get(ctx, runDate)
	require.NoError(t, err)
	assert.Equal(t, model.RunCompleted, status)
	assert.Equal(t, 1, got.Sent)

	ok, err = rr.Claim(ctx, runDate, uuid.New(), started.Add(10*time.Hour), 2*time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "completed run is final")
}

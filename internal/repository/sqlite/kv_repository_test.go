package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/wildcards/internal/repository"
	"github.com/vytor/wildcards/internal/repository/sqlite"
	"github.com/vytor/wildcards/internal/testutil"
)

type KVRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.KVRepository
}

func (s *KVRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewKVRepository(s.db)
}

func (s *KVRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *KVRepositorySuite) TestGetMissingKey() {
	value, found, err := s.repo.Get(context.Background(), "local:v1", "revealedCards")
	s.Require().NoError(err)
	s.Assert().False(found)
	s.Assert().Nil(value)
}

func (s *KVRepositorySuite) TestPutThenGet() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Put(ctx, "local:v1", "theme", []byte(`"dark"`)))

	value, found, err := s.repo.Get(ctx, "local:v1", "theme")
	s.Require().NoError(err)
	s.Assert().True(found)
	s.Assert().Equal(`"dark"`, string(value))
}

func (s *KVRepositorySuite) TestPutOverwrites() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Put(ctx, "local:v1", "theme", []byte(`"dark"`)))
	s.Require().NoError(s.repo.Put(ctx, "local:v1", "theme", []byte(`"light"`)))

	value, _, err := s.repo.Get(ctx, "local:v1", "theme")
	s.Require().NoError(err)
	s.Assert().Equal(`"light"`, string(value))

	var count int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv_store WHERE namespace = ?`, "local:v1").Scan(&count)
	s.Require().NoError(err)
	s.Assert().Equal(1, count)
}

func (s *KVRepositorySuite) TestNamespacesAreIsolated() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Put(ctx, "local:v1", "theme", []byte(`"dark"`)))

	_, found, err := s.repo.Get(ctx, "local:v2", "theme")
	s.Require().NoError(err)
	s.Assert().False(found)
}

func (s *KVRepositorySuite) TestDelete() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Put(ctx, "local:v1", "theme", []byte(`"dark"`)))
	s.Require().NoError(s.repo.Delete(ctx, "local:v1", "theme"))
	// deleting again is not an error
	s.Require().NoError(s.repo.Delete(ctx, "local:v1", "theme"))

	_, found, err := s.repo.Get(ctx, "local:v1", "theme")
	s.Require().NoError(err)
	s.Assert().False(found)
}

func (s *KVRepositorySuite) TestKeysAndDeleteNamespace() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Put(ctx, "local:v1", "theme", []byte(`"dark"`)))
	s.Require().NoError(s.repo.Put(ctx, "local:v1", "revealedCards", []byte(`[]`)))
	s.Require().NoError(s.repo.Put(ctx, "local:v2", "theme", []byte(`"light"`)))

	keys, err := s.repo.Keys(ctx, "local:v1")
	s.Require().NoError(err)
	s.Assert().Equal([]string{"revealedCards", "theme"}, keys)

	s.Require().NoError(s.repo.DeleteNamespace(ctx, "local:v1"))

	keys, err = s.repo.Keys(ctx, "local:v1")
	s.Require().NoError(err)
	s.Assert().Empty(keys)

	keys, err = s.repo.Keys(ctx, "local:v2")
	s.Require().NoError(err)
	s.Assert().Equal([]string{"theme"}, keys)
}

func TestKVRepositorySuite(t *testing.T) {
	suite.Run(t, new(KVRepositorySuite))
}

package repo_test

import (
	"os"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/trek-booking/testutil"
)

// TestMain migrates the test database once for the package. Without
// TEST_DATABASE_URL every test skips itself through testutil.
func TestMain(m *testing.M) {
	testutil.MigrateForMain()
	os.Exit(m.Run())
}

func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	return testutil.NewTx(t)
}

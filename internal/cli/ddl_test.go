package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestDDLCreate(t *testing.T) {
	out, _, err := execute(t, "ddl", modelsDir)
	require.NoError(t, err)
	newGoldie(t).Assert(t, "ddl_shop", []byte(out))
}

func TestDDLDrop(t *testing.T) {
	out, _, err := execute(t, "ddl", "--drop", modelsDir)
	require.NoError(t, err)
	newGoldie(t).Assert(t, "ddl_shop_drop", []byte(out))
}

func TestDDLJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "ddl", "--drop", modelsDir)
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   DDLResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{`DROP TABLE "pets" CASCADE`, `DROP TABLE "users" CASCADE`}, resp.Data.Statements)
}

func TestDDLOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.sql")

	out, _, err := execute(t, "ddl", "-o", path, modelsDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 statement(s) to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	newGoldie(t).Assert(t, "ddl_shop", data)
}

func TestDDLOutputFileUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "schema.sql")

	_, _, err := execute(t, "ddl", "-o", path, modelsDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeWriteFailed)
}

func TestDDLReferenceCycle(t *testing.T) {
	dir := writeModels(t, `
model: A: fields: { id: int, b: int @fb(ref="b.id") }
model: B: fields: { id: int, a: int @fb(ref="a.id") }
`)

	out, _, err := execute(t, "ddl", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "reference cycle: a → b → a")
}

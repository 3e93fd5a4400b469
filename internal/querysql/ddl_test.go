package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fluentfrontbase/internal/frontbase"
	"github.com/roach88/fluentfrontbase/internal/ir"
)

func TestCompile_CreateTable(t *testing.T) {
	args := assertGoldenSQL(t, "create_table", frontbase.CreateTable{
		Table: "pets",
		Columns: []frontbase.ColumnDefinition{
			{
				Column: "id",
				Type:   frontbase.Integer{},
				Constraints: []frontbase.ColumnConstraint{
					frontbase.NotNull{},
					frontbase.PrimaryKey{Default: frontbase.PrimaryKeyDefaultPlain},
				},
			},
			{
				Column:      "name",
				Type:        frontbase.Text{Size: frontbase.MaxTextSize},
				Constraints: []frontbase.ColumnConstraint{frontbase.NotNull{}, frontbase.Unique{Name: "pets_name_key"}},
			},
			{
				Column: "owner_id",
				Type:   frontbase.Bits{Size: 96},
				Constraints: []frontbase.ColumnConstraint{frontbase.References{
					Table:    "users",
					Column:   "id",
					OnDelete: frontbase.Cascade,
				}},
			},
			{
				Column:      "legs",
				Type:        frontbase.Integer{},
				Constraints: []frontbase.ColumnConstraint{frontbase.DefaultValue{Expr: frontbase.Literal{Value: ir.IRInt(4)}}},
			},
		},
		Constraints: []frontbase.TableConstraint{
			frontbase.UniqueTable{Columns: []string{"owner_id", "name"}, Name: "pets_owner_name"},
		},
	})
	assert.Empty(t, args)
}

func TestCompile_CreateTableForeignKey(t *testing.T) {
	sql, _, err := Serialize(frontbase.CreateTable{
		Table: "pet_toy",
		Columns: []frontbase.ColumnDefinition{
			{Column: "pet_id", Type: frontbase.Integer{}},
			{Column: "toy_id", Type: frontbase.Integer{}},
		},
		Constraints: []frontbase.TableConstraint{
			frontbase.PrimaryKeyTable{Columns: []string{"pet_id", "toy_id"}},
			frontbase.ForeignKey{
				Columns:    []string{"pet_id"},
				RefTable:   "pets",
				RefColumns: []string{"id"},
				OnDelete:   frontbase.Cascade,
				OnUpdate:   frontbase.SetNull,
				Name:       "fk_pet",
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`CREATE TABLE "pet_toy" ("pet_id" INTEGER, "toy_id" INTEGER, PRIMARY KEY ("pet_id", "toy_id"), `+
			`CONSTRAINT "fk_pet" FOREIGN KEY ("pet_id") REFERENCES "pets" ("id") ON DELETE CASCADE ON UPDATE SET NULL)`,
		sql)
}

func TestCompile_AlterTable(t *testing.T) {
	assertGoldenSQL(t, "alter_table", frontbase.AlterTable{
		Table: "users",
		AddColumn: frontbase.ColumnDefinition{
			Column:      "nickname",
			Type:        frontbase.Text{Size: 64},
			Constraints: []frontbase.ColumnConstraint{frontbase.NotNull{}},
		},
	})
}

func TestCompile_DropTable(t *testing.T) {
	assertGoldenSQL(t, "drop_table", frontbase.DropTable{Table: "users"})
}

func TestCompile_DropTableBehavior(t *testing.T) {
	tests := []struct {
		behavior frontbase.DropBehavior
		want     string
	}{
		{frontbase.DropCascade, `DROP TABLE "users" CASCADE`},
		{frontbase.DropRestrict, `DROP TABLE "users" RESTRICT`},
		{frontbase.DropUnqualified, `DROP TABLE "users"`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			sql, args, err := Serialize(frontbase.DropTable{Table: "users", Behavior: tt.behavior})
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
			assert.Empty(t, args)
		})
	}
}

func TestCompileColumnDefinition_PrimaryKeyDefaults(t *testing.T) {
	tests := []struct {
		name string
		def  frontbase.ColumnDefinition
		want string
	}{
		{
			name: "row id",
			def: frontbase.ColumnDefinition{
				Column:      "id",
				Type:        frontbase.Text{Size: 36},
				Constraints: []frontbase.ColumnConstraint{frontbase.PrimaryKey{Default: frontbase.PrimaryKeyDefaultRowID}},
			},
			want: `"id" CHARACTER VARYING(36) DEFAULT UNIQUE PRIMARY KEY`,
		},
		{
			name: "uid",
			def: frontbase.ColumnDefinition{
				Column:      "id",
				Type:        frontbase.Bits{Size: 96},
				Constraints: []frontbase.ColumnConstraint{frontbase.NotNull{}, frontbase.PrimaryKey{Default: frontbase.PrimaryKeyDefaultUID, Name: "pk"}},
			},
			want: `"id" BIT(96) NOT NULL CONSTRAINT "pk" DEFAULT NEW_UID PRIMARY KEY`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := CompileColumnDefinition(tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
			assert.Empty(t, args)
		})
	}
}

func TestCompile_DDLErrors(t *testing.T) {
	tests := []struct {
		name string
		stmt frontbase.Statement
	}{
		{"create without columns", frontbase.CreateTable{Table: "t"}},
		{"create without table", frontbase.CreateTable{}},
		{"column without type", frontbase.CreateTable{
			Table:   "t",
			Columns: []frontbase.ColumnDefinition{{Column: "a"}},
		}},
		{"alter without column name", frontbase.AlterTable{Table: "t"}},
		{"drop without table", frontbase.DropTable{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Serialize(tt.stmt)
			assert.Error(t, err)
		})
	}
}

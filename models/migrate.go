package models

import (
	"fmt"
	"log"
	"os"
	"sort"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Query helper generation usage:

1. Set the environment variable: GENERATE_MODELS=true
2. Run the application: go run .

The models are migrated, a column report is printed and typed query helpers are
written to ./generated. The report lists, per table, the columns present in the
database that no model field maps to:

=== COLUMN REPORT ===
--- Table: tags ---
All columns are accounted for in the model.
*/

// All returns every persisted model, in migration order.
func All() []any {
	return []any{
		&Tag{},
		&BlogPost{},
		&Role{},
		&User{},
	}
}

// AutoMigrate creates or alters the tables (and join tables) of all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// GenerateModels migrates the schema and writes typed query helpers to outPath.
func GenerateModels(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 verbose,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	if err := AutoMigrate(db); err != nil {
		return err
	}

	report, err := ColumnReport(db)
	if err != nil {
		return err
	}
	PrintColumnReport(report)

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(Tag{}, BlogPost{}, Role{}, User{})
	g.Execute()

	return nil
}

// ColumnReport maps each model table to the database columns no model field accounts for.
// Tables that do not exist yet are omitted.
func ColumnReport(db *gorm.DB) (map[string][]string, error) {
	report := make(map[string][]string)

	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		if !db.Migrator().HasTable(table) {
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(table)
		if err != nil {
			return nil, fmt.Errorf("error querying columns for table %s: %w", table, err)
		}

		known := make(map[string]bool, len(stmt.Schema.DBNames))
		for _, name := range stmt.Schema.DBNames {
			known[name] = true
		}

		unknown := []string{}
		for _, col := range columnTypes {
			if !known[col.Name()] {
				unknown = append(unknown, col.Name())
			}
		}
		report[table] = unknown
	}

	return report, nil
}

// PrintColumnReport writes the report to stdout.
func PrintColumnReport(report map[string][]string) {
	fmt.Println("=== COLUMN REPORT ===")

	tables := make([]string, 0, len(report))
	for table := range report {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	total := 0
	for _, table := range tables {
		fmt.Printf("\n--- Table: %s ---\n", table)
		cols := report[table]
		if len(cols) == 0 {
			fmt.Println("All columns are accounted for in the model.")
			continue
		}
		fmt.Printf("Found %d columns not accounted for in model:\n", len(cols))
		for _, col := range cols {
			fmt.Printf("  - %s\n", col)
		}
		total += len(cols)
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", total)
}

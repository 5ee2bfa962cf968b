package dataframe

import (
	"context"
	"database/sql"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"gopkg.in/ini.v1"

	vferrors "vegafusion-go/internal/errors"
	"vegafusion-go/internal/value"
)

// Connection produces DataFrames from external named datasets (spec
// §4.5: "A Connection produces dataframes from external sources").
type Connection interface {
	Scan(ctx context.Context, datasetName string) (*DataFrame, error)
}

// FileConnection resolves dataset names against an INI table
// manifest mapping name -> on-disk path, a lightweight stand-in for the original's URL/file loaders. Grounded
// on the teacher's use of gopkg.in/ini.v1 for its own startup config.
type FileConnection struct {
	manifest *ini.File
	baseDir  string
	tables   map[string]*value.Table
}

// NewFileConnection loads a manifest file describing table_name ->
// {path} sections.
func NewFileConnection(manifestPath, baseDir string) (*FileConnection, error) {
	f, err := ini.Load(manifestPath)
	if err != nil {
		return nil, vferrors.External(err, "while loading table manifest %q", manifestPath)
	}
	return &FileConnection{manifest: f, baseDir: baseDir, tables: map[string]*value.Table{}}, nil
}

// RegisterTable makes an in-memory table directly available under
// name, bypassing the manifest; used by tests and by DataValues tasks
// carrying inline literal data.
func (c *FileConnection) RegisterTable(name string, t *value.Table) {
	c.tables[name] = t
}

// NewInMemoryConnection builds a FileConnection with no backing
// manifest, for callers that only ever resolve RegisterTable-backed
// datasets (tests, and TaskDataValues-only graphs that never reach a
// file-backed dataset name).
func NewInMemoryConnection() *FileConnection {
	return &FileConnection{tables: map[string]*value.Table{}}
}

// Scan resolves an in-memory registered table directly, or else
// checks the manifest has a path entry whose file actually exists on
// disk before declining to load it. Parsing a file's bytes into a
// Table requires a format-specific decoder (CSV/JSON/Arrow/Parquet)
// that is explicitly out of scope here (spec §1 lists file/URL
// loaders as external, out-of-scope components) — RegisterTable is
// the supported way to make a dataset's contents available to a
// FileConnection; this manifest path only validates that the entry
// and its target file exist, it never decodes them.
func (c *FileConnection) Scan(ctx context.Context, datasetName string) (*DataFrame, error) {
	if t, ok := c.tables[datasetName]; ok {
		return FromTable(t), nil
	}
	if c.manifest == nil {
		return nil, vferrors.Internal("no dataset named %q registered", datasetName)
	}
	sec, err := c.manifest.GetSection(datasetName)
	if err != nil {
		return nil, vferrors.Internal("no dataset named %q registered in table manifest", datasetName)
	}
	path := sec.Key("path").String()
	if path == "" {
		return nil, vferrors.Specification("dataset %q manifest entry missing required 'path' key", datasetName)
	}
	if _, err := os.Stat(c.baseDir + string(os.PathSeparator) + path); err != nil {
		return nil, vferrors.External(err, "while resolving dataset file for %q", datasetName)
	}
	return nil, vferrors.SQLNotSupported("file-backed table loading for %q requires a format-specific loader not wired into this connection", datasetName)
}

// SQLConnection scans a named dataset as a SQL table via database/sql,
// using the MySQL driver the teacher's own server protocol targets.
// Only simple `SELECT * FROM <table>` scans are supported; everything
// past the scan (filter/aggregate/etc.) is expressed as LogicalPlan
// nodes evaluated by a PlanExecutor, not pushed into SQL.
type SQLConnection struct {
	DB *sql.DB
}

// NewSQLConnection opens a MySQL connection using the given DSN.
func NewSQLConnection(dsn string) (*SQLConnection, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, vferrors.External(err, "while opening SQL connection")
	}
	return &SQLConnection{DB: db}, nil
}

func (c *SQLConnection) Scan(ctx context.Context, datasetName string) (*DataFrame, error) {
	if strings.ContainsAny(datasetName, " ;\"'") {
		return nil, vferrors.Specification("invalid dataset name %q", datasetName)
	}
	rows, err := c.DB.QueryContext(ctx, "SELECT * FROM `"+datasetName+"`")
	if err != nil {
		return nil, vferrors.External(err, "while scanning table %q", datasetName)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, vferrors.External(err, "while reading columns of %q", datasetName)
	}
	fields := make([]value.Field, len(cols))
	for i, name := range cols {
		fields[i] = value.Field{Name: name, Type: value.FieldString, Nullable: true}
	}
	schema := value.NewSchema(fields...)

	var tableRows []value.Row
	scanDest := make([]interface{}, len(cols))
	scanBuf := make([]sql.NullString, len(cols))
	for i := range scanBuf {
		scanDest[i] = &scanBuf[i]
	}
	for rows.Next() {
		if err := rows.Scan(scanDest...); err != nil {
			return nil, vferrors.External(err, "while scanning row of %q", datasetName)
		}
		row := make(value.Row, len(cols))
		for i, s := range scanBuf {
			if s.Valid {
				row[i] = value.String(s.String)
			} else {
				row[i] = value.Null()
			}
		}
		tableRows = append(tableRows, row)
	}
	return FromTable(value.NewTable(schema, tableRows)), nil
}

// Command logexport writes the calculation log to a CSV or XLSX file and
// can purge it afterwards.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"TPSuite/internal/config"
	"TPSuite/internal/db"
	"TPSuite/internal/export"
	"TPSuite/internal/repo"
)

func main() {
	format := flag.String("format", "csv", "output format: csv or xlsx")
	out := flag.String("out", "", "output file (default: dated name in the current directory, - for stdout)")
	purge := flag.Bool("purge", false, "delete all records after a successful export")
	version := flag.Bool("version", false, "print the schema version and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer conn.Close()

	if *version {
		v, dirty, err := db.MigrateVersion(conn, cfg.DBDriver)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("schema version %d (dirty: %t)\n", v, dirty)
		return
	}

	ext, err := export.ParseFormat(*format)
	if err != nil {
		log.Fatal(err)
	}
	store := repo.NewSQLRepository(conn)
	n, err := run(ctx, store, ext, *out)
	if err != nil {
		log.Fatalf("export: %v", err)
	}
	log.Printf("exported %d records", n)

	if *purge {
		deleted, err := store.DeleteAllLogs(ctx)
		if err != nil {
			log.Fatalf("purge: %v", err)
		}
		log.Printf("purged %d records", deleted)
	}
}

func run(ctx context.Context, store repo.LogRepository, ext, path string) (int, error) {
	logs, err := store.ListLogs(ctx)
	if err != nil {
		return 0, err
	}
	if path == "" {
		path = export.Filename(time.Now(), ext)
	}

	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		w = f
	}

	write := export.WriteCSV
	if ext == "xlsx" {
		write = export.WriteXLSX
	}
	if err := write(w, logs); err != nil {
		return 0, err
	}
	if path != "-" {
		log.Printf("wrote %s", path)
	}
	return len(logs), nil
}

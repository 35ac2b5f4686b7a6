// Command faculty-import loads a faculty roster workbook into the database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"research-metrics-api/config"
	"research-metrics-api/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var (
		file           string
		clearExisting  bool
		skipDuplicates bool
		dryRun         bool
	)

	flag.StringVar(&file, "file", "", "path to the roster .xlsx file (required)")
	flag.BoolVar(&clearExisting, "clear", false, "delete all existing faculty rows before importing")
	flag.BoolVar(&skipDuplicates, "skip-duplicates", true, "skip rows whose name already exists")
	flag.BoolVar(&dryRun, "dry-run", false, "parse the workbook without writing to the database")
	flag.Parse()

	if file == "" {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("read roster file: %v", err)
	}

	records, err := services.ParseFacultyRoster(data)
	if err != nil {
		log.Fatalf("parse roster: %v", err)
	}
	log.Printf("Parsed %d faculty records from %s", len(records), file)

	if dryRun {
		for _, r := range records {
			fmt.Printf("%s\t%s\t%s\n", r.Name, r.Department, r.Position)
		}
		return
	}

	config.InitDB()

	svc := services.NewFacultyService(config.DB)
	summary, err := svc.ImportRecords(context.Background(), records, clearExisting, skipDuplicates)
	if err != nil {
		log.Fatalf("import roster: %v", err)
	}

	log.Printf("Imported %d, skipped %d, cleared %d", summary.Imported, summary.Skipped, summary.Cleared)
}
